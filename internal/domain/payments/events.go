package payments

// ===============================
// Eventos de webhook (variantes tipadas)
// ===============================

type EventKind string

const (
	EventIntentSucceeded EventKind = "intent_succeeded"
	EventIntentFailed    EventKind = "intent_failed"
	EventTransferCreated EventKind = "transfer_created"
	EventTransferFailed  EventKind = "transfer_failed"
	EventAccountUpdated  EventKind = "account_updated"

	// O processador reenvia indefinidamente eventos respondidos com erro;
	// tipos que não tratamos são aceitos (200) e ignorados
	EventUnknown EventKind = "unknown"
)

type Event struct {
	ID   string
	Kind EventKind

	// intent_succeeded / intent_failed
	IntentID string

	// transfer_created / transfer_failed
	TransferID  string
	Destination string

	// account_updated
	AccountID string
	Flags     AccountFlags
}
