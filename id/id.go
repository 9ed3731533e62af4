package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed from crypto/rand so two processes started in the same
	// nanosecond still produce different ids.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string. IDs generated by one process sort in
// generation order, which keeps fills and notifications in causal order
// when listed from a journal.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only possible if the clock runs backwards past the monotonic window.
		panic(err)
	}
	return id.String()
}

// Short returns the first 8 characters of an id for display.
func Short(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
