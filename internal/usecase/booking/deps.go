package booking

import (
	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// Sinks best-effort: falha de auditoria/notificação nunca propaga para a
// transição que a disparou
type AuditSink interface {
	Dispatch(audit.Event)
}

type NotifySink interface {
	Dispatch(notification.Message)
}
