package outbox

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

// WatermillPublisher publishes outbox messages through any watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (w *WatermillPublisher) Publish(ctx context.Context, msg *Message) error {
	wmMsg := message.NewMessage(msg.ID, msg.Payload)
	wmMsg.SetContext(ctx)

	for key, value := range msg.Metadata {
		wmMsg.Metadata.Set(key, value)
	}
	if msg.Key != "" {
		wmMsg.Metadata.Set(MetadataPartitionKey, msg.Key)
	}

	return errx.Wrap(w.publisher.Publish(msg.Topic, wmMsg))
}

func (w *WatermillPublisher) Close() error {
	return errx.Wrap(w.publisher.Close())
}

// NewChannelPublisher returns an in-process publisher together with the
// underlying pub/sub, so callers can subscribe to what gets published.
//
// Messages are not kept: subscribe before the first publish. Publish returns
// once every subscriber has acked, so subscribers see messages in publish order.
func NewChannelPublisher(log logger.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            256,
			BlockPublishUntilSubscriberAck: true,
		},
		logger.NewWatermillAdapter(log.Named("outbox.channel")),
	)
	return NewWatermillPublisher(pubSub), pubSub
}
