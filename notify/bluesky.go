package notify

import (
	"context"

	"wahoowatch/bluesky"
	"wahoowatch/models"

	log "github.com/sirupsen/logrus"
)

// poster is the slice of the bluesky client this sink needs.
type poster interface {
	Post(ctx context.Context, text string) error
}

// Bluesky posts new versions to a Bluesky account. The authenticated session
// is created on the first notification and reused for the rest of the run;
// nothing is persisted between runs.
type Bluesky struct {
	client poster
	login  func(ctx context.Context) (poster, error)
}

func NewBluesky(host string, identifier string, password string) *Bluesky {
	creds := &bluesky.Credentials{
		Identifier: identifier,
		Password:   password,
	}

	return &Bluesky{
		login: func(ctx context.Context) (poster, error) {
			return bluesky.ClientFromCredentials(ctx, host, creds)
		},
	}
}

func (b *Bluesky) Name() string {
	return "bluesky"
}

// Notify posts the announcement. A failed post triggers one
// re-authentication and one retried post before the error is reported.
func (b *Bluesky) Notify(ctx context.Context, version models.Version) error {
	text := Message(version)

	if b.client == nil {
		client, err := b.login(ctx)
		if err != nil {
			return err
		}
		b.client = client
	}

	err := b.client.Post(ctx, text)
	if err == nil {
		return nil
	}

	log.WithFields(log.Fields{
		"error": err,
	}).Warn("Bluesky post failed, creating a new session and retrying")

	client, loginErr := b.login(ctx)
	if loginErr != nil {
		return loginErr
	}
	b.client = client

	return b.client.Post(ctx, text)
}
