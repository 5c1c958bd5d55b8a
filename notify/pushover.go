package notify

import (
	"context"

	"wahoowatch/models"

	"github.com/gregdel/pushover"
)

// Pushover sends push notifications through the Pushover API.
type Pushover struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

// NewPushover builds the sink from an application token and the user key of
// the receiving user.
func NewPushover(token string, userKey string) *Pushover {
	return &Pushover{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
	}
}

func (p *Pushover) Name() string {
	return "pushover"
}

func (p *Pushover) Notify(ctx context.Context, version models.Version) error {
	_, err := p.app.SendMessage(pushover.NewMessage(Message(version)), p.recipient)
	return err
}
