package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCM pushes events to registered devices through Firebase Cloud Messaging.
type FCM struct {
	client *messaging.Client
	tokens []string
}

// NewFCM initializes the messaging client from a service account file.
func NewFCM(ctx context.Context, credentialsFile string, tokens []string) (*FCM, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("fcm: credentials file is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("fcm: init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: messaging client: %w", err)
	}
	return &FCM{client: client, tokens: tokens}, nil
}

// message builds the push for one device.
func message(token, title, body string, sev Severity) *messaging.Message {
	priority := "normal"
	if sev == Warning || sev == Error {
		priority = "high"
	}
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type": string(sev),
		},
		Android: &messaging.AndroidConfig{
			Priority: priority,
			Notification: &messaging.AndroidNotification{
				ChannelID: "quantdesk_trades",
			},
		},
	}
}

func (f *FCM) Notify(title, body string, sev Severity) {
	if f == nil || f.client == nil || len(f.tokens) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, tok := range f.tokens {
			if _, err := f.client.Send(ctx, message(tok, title, body, sev)); err != nil {
				log.Printf("fcm notify %s...: %v", tok[:min(len(tok), 8)], err)
			}
		}
	}()
}
