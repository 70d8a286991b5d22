package outbox

import (
	"strings"

	wkafka "github.com/ThreeDotsLabs/watermill-kafka/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

// NewKafkaPublisher builds a Kafka publisher that partitions by Message.Key.
// Messages without a key are rejected by the marshaler.
func NewKafkaPublisher(cfg KafkaConfig, log logger.Logger) (*WatermillPublisher, error) {
	saramaCfg := wkafka.DefaultSaramaSyncPublisherConfig()
	saramaCfg.ClientID = cfg.ClientID

	marshaler := wkafka.NewWithPartitioningMarshaler(partitionKey)

	publisher, err := wkafka.NewPublisher(
		strings.Split(cfg.Brokers, ","),
		marshaler,
		saramaCfg,
		logger.NewWatermillAdapter(log.Named("outbox.kafka")),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return NewWatermillPublisher(publisher), nil
}

func partitionKey(_ string, msg *message.Message) (string, error) {
	key := msg.Metadata.Get(MetadataPartitionKey)
	if key == "" {
		return "", errx.New("[outbox]: partition key is empty",
			errx.WithDetails(errx.D{"message_id": msg.UUID}),
		)
	}
	return key, nil
}
