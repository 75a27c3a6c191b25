package jobpost

import (
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
