package utils

import (
	"context"
	"log"

	pubnub "github.com/pubnub/go"
)

// Notifier publishes realtime messages over PubNub behind a circuit
// breaker, so a flapping PubNub endpoint cannot stall request handling.
// Publishing is best-effort: failures are logged, never returned.
type Notifier struct {
	pn      *pubnub.PubNub
	breaker *CircuitBreaker
}

func NewNotifier(pn *pubnub.PubNub) *Notifier {
	return &Notifier{
		pn:      pn,
		breaker: NewCircuitBreaker("pubnub-publish"),
	}
}

func (n *Notifier) Publish(channel string, message map[string]any) {
	if n == nil || n.pn == nil {
		return
	}

	_, err := n.breaker.Execute(context.Background(), func() (interface{}, error) {
		_, _, err := n.pn.Publish().
			Channel(channel).
			Message(message).
			Execute()
		return nil, err
	})
	if err != nil {
		log.Printf("Error publishing to channel %s: %v", channel, err)
	}
}
