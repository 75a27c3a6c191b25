package payments

import "math"

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

// Transfer status evolui independente do payment status: um webhook pode
// atualizar qualquer um dos dois, então inconsistência transitória entre
// eles é tolerada
type TransferStatus string

const (
	TransferPending  TransferStatus = "PENDING"
	TransferPaid     TransferStatus = "PAID"
	TransferFailed   TransferStatus = "FAILED"
	TransferCanceled TransferStatus = "CANCELED"
)

// ===============================
// Split da plataforma
// ===============================

const PlatformFeeRate = 0.05

// Split calcula a taxa retida pela plataforma e o valor líquido repassado
// ao cuidador, ambos arredondados a centavos
func Split(gross float64) (fee, net float64) {
	fee = math.Round(gross*PlatformFeeRate*100) / 100
	net = math.Round((gross-fee)*100) / 100
	return fee, net
}
