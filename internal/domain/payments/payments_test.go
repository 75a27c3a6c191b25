package payments

import "testing"

func TestSplit(t *testing.T) {
	cases := []struct {
		gross   float64
		wantFee float64
		wantNet float64
	}{
		{100, 5, 95},
		{80, 4, 76},
		{33.33, 1.67, 31.66},
		{0, 0, 0},
	}

	for _, tc := range cases {
		fee, net := Split(tc.gross)
		if fee != tc.wantFee || net != tc.wantNet {
			t.Errorf("Split(%v) = (%v, %v), want (%v, %v)",
				tc.gross, fee, net, tc.wantFee, tc.wantNet)
		}
	}
}

func TestStatusFromFlags(t *testing.T) {
	cases := []struct {
		name  string
		flags AccountFlags
		want  AccountStatus
	}{
		{
			"all enabled",
			AccountFlags{DetailsSubmitted: true, ChargesEnabled: true, PayoutsEnabled: true},
			AccountActive,
		},
		{
			"disabled reason",
			AccountFlags{DetailsSubmitted: true, DisabledReason: "requirements.past_due"},
			AccountRestricted,
		},
		{
			"onboarding incomplete",
			AccountFlags{DetailsSubmitted: true, ChargesEnabled: true},
			AccountPending,
		},
		{
			"nothing yet",
			AccountFlags{},
			AccountPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromFlags(tc.flags); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCanReceivePayments(t *testing.T) {
	if !CanReceivePayments(AccountActive, true, true) {
		t.Error("active account with capabilities should receive payments")
	}
	if CanReceivePayments(AccountActive, true, false) {
		t.Error("payouts disabled should gate intent creation")
	}
	if CanReceivePayments(AccountPending, true, true) {
		t.Error("pending account should gate intent creation")
	}
}
