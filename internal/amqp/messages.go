package amqp

import (
	"encoding/json"
	"time"
)

// InvalidationMessage names cache keys one instance dropped for a session,
// so the others can drop them too. Session is the session fingerprint,
// never the raw token.
type InvalidationMessage struct {
	Origin    string    `json:"origin"`
	Session   string    `json:"session"`
	Keys      []string  `json:"keys"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvalidationMessage creates a message stamped with the current time
func NewInvalidationMessage(origin, session string, keys []string) *InvalidationMessage {
	return &InvalidationMessage{
		Origin:    origin,
		Session:   session,
		Keys:      keys,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvalidationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvalidationMessageFromJSON creates a message from JSON bytes
func InvalidationMessageFromJSON(data []byte) (*InvalidationMessage, error) {
	var msg InvalidationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
