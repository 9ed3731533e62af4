package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

var severityColor = map[Severity]int{
	Info:    0x3b82f6,
	Success: 0x10b981,
	Warning: 0xf59e0b,
	Error:   0xef4444,
}

// Discord posts events to a webhook as embeds.
type Discord struct {
	webhookURL string
	client     *http.Client
	errorLog   *log.Logger
}

func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		errorLog:   log.Default(),
	}
}

func (d *Discord) Enabled() bool { return d.webhookURL != "" }

func (d *Discord) Notify(title, message string, sev Severity) {
	if !d.Enabled() {
		return
	}
	go func() {
		if err := d.Send(title, message, sev); err != nil {
			d.errorLog.Printf("discord notify: %v", err)
		}
	}()
}

// Send posts synchronously.
func (d *Discord) Send(title, message string, sev Severity) error {
	payload := map[string]any{
		"embeds": []map[string]any{
			{
				"title":       title,
				"description": message,
				"color":       severityColor[sev],
				"footer": map[string]string{
					"text": "quantdesk",
				},
				"timestamp": time.Now().Format(time.RFC3339),
			},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord returned status: %d", resp.StatusCode)
	}
	return nil
}
