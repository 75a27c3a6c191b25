package payments

import (
	"context"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// Sinks estreitos para permitir fakes em teste
type AuditSink interface {
	Dispatch(audit.Event)
}

type NotifySink interface {
	Dispatch(notification.Message)
}

// IdempotencyStore responde se um evento de webhook já foi processado.
// A primeira chamada para um ID marca e devolve false; replays devolvem
// true. Forget desfaz a marca quando o efeito falhou, para o retry do
// processador não ser engolido. Implementado sobre redis (SETNX + TTL).
type IdempotencyStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}
