package securecart

import (
	"context"
	"fmt"
	"io"
)

// LogNotifier writes reset tokens to w, one line per delivery. It
// stands in for a mail sender in demos and tests.
type LogNotifier struct {
	W io.Writer
}

func (n LogNotifier) Deliver(_ context.Context, email, token string) error {
	_, err := fmt.Fprintf(n.W, "password reset for %s: %s\n", email, token)
	return err
}

// ChannelNotifier pushes deliveries onto a buffered channel so tests
// can capture issued tokens. Deliver never blocks; when the buffer is
// full the delivery is dropped and an error returned.
type ChannelNotifier struct {
	ch chan Delivery
}

// Delivery is one captured notification.
type Delivery struct {
	Email string
	Token string
}

// NewChannelNotifier creates a [ChannelNotifier] with the given buffer
// capacity.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Delivery, buffer)}
}

func (n *ChannelNotifier) Deliver(_ context.Context, email, token string) error {
	select {
	case n.ch <- Delivery{Email: email, Token: token}:
		return nil
	default:
		return fmt.Errorf("notifier buffer full, dropped delivery for %s", email)
	}
}

// Deliveries exposes the capture channel.
func (n *ChannelNotifier) Deliveries() <-chan Delivery { return n.ch }
