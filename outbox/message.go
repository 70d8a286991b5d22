package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/protobuf/proto"
)

// MetadataPartitionKey is the metadata key carrying Message.Key on the broker side.
const MetadataPartitionKey = "partition_key"

type Status string

const (
	StatusPending  Status = "pending"
	StatusConsumed Status = "consumed"
)

// Message is a single outbox entry.
type Message struct {
	bun.BaseModel `bun:"table:outbox_messages,alias:om"`

	// Seq orders messages by insertion.
	Seq       int64             `bun:"seq,pk,autoincrement"                                 json:"seq"`
	ID        string            `bun:"id,notnull,unique"                                    json:"id"`
	Topic     string            `bun:"topic,notnull"                                        json:"topic"`
	Key       string            `bun:"key"                                                  json:"key,omitempty"`
	Payload   []byte            `bun:"payload"                                              json:"payload"`
	Metadata  map[string]string `bun:"metadata"                                             json:"metadata,omitempty"`
	Status    Status            `bun:"status,notnull,default:'pending'"                     json:"status"`
	CreatedAt time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// NewMessage builds a pending message with a fresh id.
func NewMessage(topic, key string, payload []byte) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Topic:     topic,
		Key:       key,
		Payload:   payload,
		Metadata:  make(map[string]string),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// NewJSONMessage builds a message whose payload is v encoded as JSON.
func NewJSONMessage(topic, key string, v any) (*Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeMarshalFailed))
	}

	msg := NewMessage(topic, key, payload)
	msg.Metadata["content_type"] = "application/json"
	return msg, nil
}

// NewProtoMessage builds a message whose payload is m in protobuf wire format.
func NewProtoMessage(topic, key string, m proto.Message) (*Message, error) {
	payload, err := proto.Marshal(m)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeMarshalFailed))
	}

	msg := NewMessage(topic, key, payload)
	msg.Metadata["content_type"] = "application/protobuf"
	msg.Metadata["proto_type"] = string(proto.MessageName(m))
	return msg, nil
}

// InjectTraceContext writes the trace context of ctx into msg metadata so
// consumers can continue the trace.
func InjectTraceContext(ctx context.Context, msg *Message) {
	if msg.Metadata == nil {
		msg.Metadata = make(map[string]string)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}
