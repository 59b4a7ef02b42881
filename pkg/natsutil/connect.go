package natsutil

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/garage-mvp/pkg/fn"
)

// Connect dials the NATS server with retries, so services can start
// before the broker is up.
func Connect(ctx context.Context, url, name string) (*nats.Conn, error) {
	opts := fn.RetryOpts{
		MaxAttempts: 5,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Jitter:      true,
	}
	nc, err := fn.Retry(ctx, opts, func(context.Context) (*nats.Conn, error) {
		return nats.Connect(url,
			nats.Name(name),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("natsutil: connect %s: %w", url, err)
	}
	return nc, nil
}
