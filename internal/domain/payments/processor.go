package payments

import "context"

// ===============================
// Processador externo (interface)
// ===============================

type IntentInput struct {
	Amount             float64 // bruto, na moeda da plataforma
	ApplicationFee     float64
	DestinationAccount string
	IdempotencyKey     string
	Metadata           map[string]string
}

type IntentResult struct {
	IntentID     string
	ClientSecret string
}

type AccountInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type Balance struct {
	Available float64 `json:"available"`
	Pending   float64 `json:"pending"`
}

// Processor é injetado no coordinator na construção (nada de cliente global
// memoizado); em teste entra um fake. Timeout é responsabilidade do caller:
// em timeout não assumimos sucesso — o estado local fica PENDING e o webhook
// resolve.
type Processor interface {
	CreateDestinationIntent(ctx context.Context, in IntentInput) (*IntentResult, error)

	CreateExpressAccount(ctx context.Context, in AccountInput) (string, error)
	AccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	LoginLink(ctx context.Context, accountID string) (string, error)
	RetrieveAccount(ctx context.Context, accountID string) (AccountFlags, error)
	RetrieveBalance(ctx context.Context, accountID string) (*Balance, error)

	// ParseWebhook verifica a assinatura contra o secret configurado antes
	// de confiar no payload; assinatura inválida → erro, nenhum estado muda
	ParseWebhook(payload []byte, signature, secret string) (Event, error)
}
