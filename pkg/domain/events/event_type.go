package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	// Ledger events
	EventTypeTransactionCompleted  EventType = "Ledger.TransactionCompleted"
	EventTypeTransactionFailed     EventType = "Ledger.TransactionFailed"
	EventTypeTransactionRolledBack EventType = "Ledger.TransactionRolledBack"
	EventTypeTransactionStuck      EventType = "Ledger.TransactionStuck"

	// Wallet events
	EventTypeWalletStatusChanged EventType = "Wallet.StatusChanged"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// Event is implemented by every payload published on the event bus.
type Event interface {
	Type() string
}

// EventTypes maps each event type to a constructor of its zero value, used
// by transport drivers to decode payloads.
var EventTypes = map[string]func() Event{
	EventTypeTransactionCompleted.String():  func() Event { return &TransactionCompleted{} },
	EventTypeTransactionFailed.String():     func() Event { return &TransactionFailed{} },
	EventTypeTransactionRolledBack.String(): func() Event { return &TransactionRolledBack{} },
	EventTypeTransactionStuck.String():      func() Event { return &TransactionStuck{} },
	EventTypeWalletStatusChanged.String():   func() Event { return &WalletStatusChanged{} },
}
