package events

import (
	"encoding/json"
	"time"
)

const (
	KindExpenseChanged  = "expense.changed"
	KindImportCompleted = "import.completed"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Message is the envelope for every budget event. Consumers switch on Kind;
// the reconcile worker treats any kind as a hint that totals moved.
type Message struct {
	Kind      string    `json:"kind"`
	Action    string    `json:"action,omitempty"`
	ExpenseID string    `json:"expense_id,omitempty"`
	Accepted  int       `json:"accepted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseChangedMessage(action, expenseID string) *Message {
	return &Message{
		Kind:      KindExpenseChanged,
		Action:    action,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func NewImportCompletedMessage(accepted int) *Message {
	return &Message{
		Kind:      KindImportCompleted,
		Accepted:  accepted,
		Timestamp: time.Now(),
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
