// Package auth is the local profile store behind sign-up, login, password
// reset and the PIN lock. Passwords and PINs are stored as bcrypt hashes
// in a JSON file.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("please fill in all fields")
	ErrInvalidPIN         = errors.New("PIN must be 4 digits")
	ErrPINMismatch        = errors.New("PINs do not match")
	ErrInvalidMobile      = errors.New("please enter a valid mobile number")
	ErrExists             = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoAccount          = errors.New("no account found, please sign up")
	ErrUnknownIdentity    = errors.New("email or mobile number does not match our records")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrIncorrectPIN       = errors.New("incorrect PIN")
)

const MinPasswordLength = 4

var (
	pinPattern    = regexp.MustCompile(`^\d{4}$`)
	mobilePattern = regexp.MustCompile(`^\d{10,15}$`)
)

// Profile is what the rest of the app sees of a user.
type Profile struct {
	Email   string `json:"email"`
	Mobile  string `json:"mobile,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

type record struct {
	Profile
	PasswordHash []byte `json:"passwordHash"`
	PINHash      []byte `json:"pinHash"`
}

// Registration is the sign-up form.
type Registration struct {
	Email      string
	Password   string
	PIN        string
	ConfirmPIN string
	Mobile     string
}

type Store struct {
	mu    sync.Mutex
	path  string
	cost  int
	users map[string]*record
}

type Option func(*Store)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option { return func(s *Store) { s.cost = cost } }

// Open loads the store at path. A missing file is an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, cost: bcrypt.DefaultCost, users: map[string]*record{}}
	for _, o := range opts {
		o(s)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	var recs []*record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}
	for _, r := range recs {
		s.users[normalizeEmail(r.Email)] = r
	}
	return s, nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// NormalizeMobile strips spaces and dashes.
func NormalizeMobile(m string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(m))
}

// SignUp validates the form in order (PIN, PIN confirmation, required
// fields, mobile) and stores the new profile.
func (s *Store) SignUp(reg Registration) (Profile, error) {
	if !pinPattern.MatchString(reg.PIN) {
		return Profile{}, ErrInvalidPIN
	}
	if reg.PIN != reg.ConfirmPIN {
		return Profile{}, ErrPINMismatch
	}
	email := normalizeEmail(reg.Email)
	if email == "" || reg.Password == "" || strings.TrimSpace(reg.Mobile) == "" {
		return Profile{}, ErrMissingFields
	}
	mobile := NormalizeMobile(reg.Mobile)
	if !mobilePattern.MatchString(mobile) {
		return Profile{}, ErrInvalidMobile
	}

	pw, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return Profile{}, fmt.Errorf("hash password: %w", err)
	}
	pin, err := bcrypt.GenerateFromPassword([]byte(reg.PIN), s.cost)
	if err != nil {
		return Profile{}, fmt.Errorf("hash pin: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return Profile{}, ErrExists
	}
	r := &record{
		Profile:      Profile{Email: email, Mobile: mobile, IsAdmin: true},
		PasswordHash: pw,
		PINHash:      pin,
	}
	s.users[email] = r
	if err := s.saveLocked(); err != nil {
		delete(s.users, email)
		return Profile{}, err
	}
	return r.Profile, nil
}

// Login returns an unlocked session.
func (s *Store) Login(email, password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return nil, ErrNoAccount
	}
	r, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(r.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Session{profile: r.Profile, pinHash: r.PINHash}, nil
}

// ResetPassword finds the user by email or mobile number.
func (s *Store) ResetPassword(identifier, password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(identifier)
	if r == nil {
		return ErrUnknownIdentity
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	old := r.PasswordHash
	r.PasswordHash = hash
	if err := s.saveLocked(); err != nil {
		r.PasswordHash = old
		return err
	}
	return nil
}

func (s *Store) findLocked(identifier string) *record {
	if r, ok := s.users[normalizeEmail(identifier)]; ok {
		return r
	}
	mobile := NormalizeMobile(identifier)
	for _, r := range s.users {
		if mobile != "" && r.Mobile == mobile {
			return r
		}
	}
	return nil
}

func (s *Store) saveLocked() error {
	recs := make([]*record, 0, len(s.users))
	for _, r := range s.users {
		recs = append(recs, r)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

// Session is a logged-in user. It starts unlocked.
type Session struct {
	mu      sync.Mutex
	profile Profile
	pinHash []byte
	locked  bool
}

func (s *Session) Profile() Profile { return s.profile }

func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = true
}

func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Unlock clears the lock when pin matches. A wrong PIN leaves the
// session locked.
func (s *Session) Unlock(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return ErrIncorrectPIN
	}
	s.locked = false
	return nil
}
