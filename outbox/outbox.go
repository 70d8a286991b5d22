// Package outbox relays messages written to a transactional outbox table to
// a message broker.
//
// Messages are created in the same database transaction as the business
// change that produced them (see bunstore.Store.Add). A PollingPublisher then
// drains the store oldest first: read, publish, delete. Delivery is
// at-least-once; a crash between publish and delete republishes the message
// on the next drain.
package outbox

import "context"

const (
	// CodeReadFailed marks a store read that failed while looking for pending messages.
	CodeReadFailed = "OUTBOX_READ_FAILED"

	// CodePublishFailed marks a message that could not be handed to the broker.
	// The message stays in the store.
	CodePublishFailed = "OUTBOX_PUBLISH_FAILED"

	// CodeDeleteFailed marks a published message that could not be removed from the store.
	CodeDeleteFailed = "OUTBOX_DELETE_FAILED"

	// CodeMarshalFailed marks a payload that could not be encoded.
	CodeMarshalFailed = "OUTBOX_MARSHAL_FAILED"
)

// Store is the persistent outbox the PollingPublisher drains.
type Store interface {
	// FindOldestPending returns the oldest pending message, or nil when the
	// store is empty.
	FindOldestPending(ctx context.Context) (*Message, error)

	// Delete removes msg from the store.
	Delete(ctx context.Context, msg *Message) error
}

// Publisher delivers a message to its destination.
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
}
