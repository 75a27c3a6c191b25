package booking

import "github.com/CareBridgeServices/care-marketplace/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
	StatusRejected   Status = "REJECTED"

	// Reservado para varredura futura de PENDING vencidos — nenhum
	// componente dispara essa transição hoje
	StatusExpired Status = "EXPIRED"
)

// ===============================
// Payment Status (desacoplado)
// ===============================

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentHold     PaymentStatus = "HOLD"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// ===============================
// Tabela de transições
// ===============================

// sources lista os únicos estados de origem válidos para cada transição;
// a mensagem de conflito sempre nomeia esses estados
var sources = map[Status][]Status{
	StatusAccepted:   {StatusPending},
	StatusRejected:   {StatusPending},
	StatusInProgress: {StatusAccepted},
	StatusCompleted:  {StatusAccepted, StatusInProgress},
	StatusCanceled:   {StatusPending, StatusAccepted, StatusInProgress},
	StatusExpired:    {StatusPending},
}

func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// ValidSources retorna os estados de origem permitidos para chegar em `to`
func ValidSources(to Status) []Status {
	return sources[to]
}

// CanTransition valida a aresta current → to contra a tabela
func CanTransition(current, to Status) error {
	for _, from := range sources[to] {
		if from == current {
			return nil
		}
	}
	return invalidState(to)
}

func invalidState(to Status) error {
	msg := "Only bookings in "
	for i, s := range sources[to] {
		if i > 0 {
			msg += " or "
		}
		msg += string(s)
	}
	msg += " can become " + string(to)
	return httperr.ErrBusinessMsg("invalid_state", msg)
}

func InitialStatus() Status {
	return StatusPending
}
