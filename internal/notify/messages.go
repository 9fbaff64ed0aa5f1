package notify

import (
	"encoding/json"
	"time"
)

// RecordSavedMessage is published when a user saves an estimation to
// their history, so a downstream notifier can push a reminder.
type RecordSavedMessage struct {
	Owner     string    `json:"owner"`
	RecordID  string    `json:"record_id"`
	Label     string    `json:"label"`
	TaxAmount string    `json:"tax_amount"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSavedMessage(owner, recordID, label, taxAmount string) *RecordSavedMessage {
	return &RecordSavedMessage{
		Owner:     owner,
		RecordID:  recordID,
		Label:     label,
		TaxAmount: taxAmount,
		Timestamp: time.Now(),
	}
}

func (m *RecordSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSavedMessageFromJSON(data []byte) (*RecordSavedMessage, error) {
	var msg RecordSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
