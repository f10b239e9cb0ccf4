package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage asks the export worker to mirror one ledger entry.
// It carries only the entry key; the worker fetches the full record from
// the local database.
type EntrySyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id string) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
