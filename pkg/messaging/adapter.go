package messaging

import (
	"context"

	"github.com/jwalitptl/clinic-records/pkg/logger"
)

// Consume subscribes to channel and calls handler for every message until ctx
// is done. Handler errors are logged and do not stop consumption.
func Consume(ctx context.Context, broker Broker, channel string, log *logger.Logger, handler func([]byte) error) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgChan {
			if err := handler(msg); err != nil {
				log.Error(err, "failed to handle message", "channel", channel)
			}
		}
	}()
	return nil
}
