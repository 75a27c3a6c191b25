package stripepay

import (
	"context"
	"encoding/json"
	"math"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
)

// ======================================================
// STRIPE PROCESSOR
// ======================================================

// Processor implementa domain.Processor sobre a API do Stripe. O cliente
// é construído com a chave injetada; nada de estado global.
type Processor struct {
	api *client.API
}

func New(secretKey string) *Processor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Processor{api: api}
}

// cents converte o valor em moeda para a menor unidade
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// --------------------------------------------------
// Payment intents
// --------------------------------------------------

func (p *Processor) CreateDestinationIntent(
	ctx context.Context,
	in domain.IntentInput,
) (*domain.IntentResult, error) {

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(cents(in.Amount)),
		Currency:             stripe.String(string(stripe.CurrencyUSD)),
		ApplicationFeeAmount: stripe.Int64(cents(in.ApplicationFee)),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(in.DestinationAccount),
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(in.IdempotencyKey)
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.IntentResult{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// --------------------------------------------------
// Connect accounts
// --------------------------------------------------

func (p *Processor) CreateExpressAccount(
	ctx context.Context,
	in domain.AccountInput,
) (string, error) {

	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(in.Email),
		Individual: &stripe.PersonParams{
			FirstName: stripe.String(in.FirstName),
			LastName:  stripe.String(in.LastName),
			Phone:     stripe.String(in.Phone),
		},
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (p *Processor) AccountLink(
	ctx context.Context,
	accountID string,
	refreshURL string,
	returnURL string,
) (string, error) {

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (p *Processor) LoginLink(
	ctx context.Context,
	accountID string,
) (string, error) {

	params := &stripe.LoginLinkParams{
		Account: stripe.String(accountID),
	}
	params.Context = ctx

	link, err := p.api.LoginLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (p *Processor) RetrieveAccount(
	ctx context.Context,
	accountID string,
) (domain.AccountFlags, error) {

	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return domain.AccountFlags{}, err
	}

	flags := domain.AccountFlags{
		DetailsSubmitted: acct.DetailsSubmitted,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
	}
	if acct.Requirements != nil {
		flags.DisabledReason = string(acct.Requirements.DisabledReason)
	}
	return flags, nil
}

func (p *Processor) RetrieveBalance(
	ctx context.Context,
	accountID string,
) (*domain.Balance, error) {

	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)

	bal, err := p.api.Balance.Get(params)
	if err != nil {
		return nil, err
	}

	out := &domain.Balance{}
	for _, a := range bal.Available {
		out.Available += float64(a.Amount) / 100
	}
	for _, a := range bal.Pending {
		out.Pending += float64(a.Amount) / 100
	}
	return out, nil
}

// --------------------------------------------------
// Webhooks
// --------------------------------------------------

// ParseWebhook verifica a assinatura e traduz o evento para a variante
// tipada do domínio; tipos que não tratamos saem como EventUnknown
func (p *Processor) ParseWebhook(
	payload []byte,
	signature string,
	secret string,
) (domain.Event, error) {

	ev, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return domain.Event{}, err
	}

	out := domain.Event{
		ID:   ev.ID,
		Kind: domain.EventUnknown,
	}

	switch ev.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return domain.Event{}, err
		}
		out.IntentID = pi.ID
		if ev.Type == "payment_intent.succeeded" {
			out.Kind = domain.EventIntentSucceeded
		} else {
			out.Kind = domain.EventIntentFailed
		}

	case "transfer.created", "transfer.reversed":
		var tr stripe.Transfer
		if err := json.Unmarshal(ev.Data.Raw, &tr); err != nil {
			return domain.Event{}, err
		}
		out.TransferID = tr.ID
		if tr.Destination != nil {
			out.Destination = tr.Destination.ID
		}
		if ev.Type == "transfer.created" {
			out.Kind = domain.EventTransferCreated
		} else {
			out.Kind = domain.EventTransferFailed
		}

	case "account.updated":
		var acct stripe.Account
		if err := json.Unmarshal(ev.Data.Raw, &acct); err != nil {
			return domain.Event{}, err
		}
		out.Kind = domain.EventAccountUpdated
		out.AccountID = acct.ID
		out.Flags = domain.AccountFlags{
			DetailsSubmitted: acct.DetailsSubmitted,
			ChargesEnabled:   acct.ChargesEnabled,
			PayoutsEnabled:   acct.PayoutsEnabled,
		}
		if acct.Requirements != nil {
			out.Flags.DisabledReason = string(acct.Requirements.DisabledReason)
		}
	}

	return out, nil
}

// Compile-time check
var _ domain.Processor = (*Processor)(nil)
