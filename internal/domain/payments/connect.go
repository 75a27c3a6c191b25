package payments

// ===============================
// Connect Account Status
// ===============================

type AccountStatus string

const (
	AccountNotCreated AccountStatus = "NOT_CREATED"
	AccountPending    AccountStatus = "PENDING"
	AccountActive     AccountStatus = "ACTIVE"
	AccountRestricted AccountStatus = "RESTRICTED"
)

// Flags reportadas pelo provedor externo
type AccountFlags struct {
	DetailsSubmitted bool
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DisabledReason   string
}

// StatusFromFlags é a única função que deriva status a partir das flags do
// provedor — poll e webhook passam pelos mesmos critérios e nunca divergem
func StatusFromFlags(f AccountFlags) AccountStatus {
	if f.DetailsSubmitted && f.ChargesEnabled && f.PayoutsEnabled {
		return AccountActive
	}
	if f.DisabledReason != "" {
		return AccountRestricted
	}
	return AccountPending
}

// CanReceivePayments é o gate de precondição para criar um intent com
// destino nessa conta
func CanReceivePayments(status AccountStatus, chargesEnabled, payoutsEnabled bool) bool {
	return status == AccountActive && chargesEnabled && payoutsEnabled
}
