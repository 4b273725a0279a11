package amqp

import (
	"encoding/json"
	"time"
)

// Event actions published when a transaction changes.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is a lightweight change notification. It carries only
// identifiers; consumers fetch the full transaction from the database.
type TransactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event for the given transaction and action
func NewTransactionEvent(transactionID, userID, action string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var evt TransactionEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
