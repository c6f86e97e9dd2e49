package amqp

import (
	"encoding/json"
	"time"
)

// RecalcMessage asks the reconciliation worker to recompute one commitment's
// derived fields. Only the id travels; the worker reads the ledger itself.
type RecalcMessage struct {
	CommitmentID int64     `json:"commitment_id"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewRecalcMessage(commitmentID int64) *RecalcMessage {
	return &RecalcMessage{
		CommitmentID: commitmentID,
		Timestamp:    time.Now(),
	}
}

func (m *RecalcMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecalcMessageFromJSON(data []byte) (*RecalcMessage, error) {
	var msg RecalcMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
