package booking

import (
	"testing"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
)

var allStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusCanceled,
	StatusRejected,
	StatusExpired,
}

func TestCanTransitionTable(t *testing.T) {
	legal := map[Status][]Status{
		StatusAccepted:   {StatusPending},
		StatusRejected:   {StatusPending},
		StatusInProgress: {StatusAccepted},
		StatusCompleted:  {StatusAccepted, StatusInProgress},
		StatusCanceled:   {StatusPending, StatusAccepted, StatusInProgress},
		StatusExpired:    {StatusPending},
	}

	for _, to := range []Status{StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCanceled, StatusExpired} {
		for _, from := range allStatuses {
			err := CanTransition(from, to)

			allowed := false
			for _, f := range legal[to] {
				if f == from {
					allowed = true
				}
			}

			if allowed && err != nil {
				t.Errorf("%s -> %s: expected legal, got %v", from, to, err)
			}
			if !allowed {
				if err == nil {
					t.Errorf("%s -> %s: expected conflict, got nil", from, to)
				} else if !httperr.IsBusiness(err, "invalid_state") {
					t.Errorf("%s -> %s: expected invalid_state, got %v", from, to, err)
				}
			}
		}
	}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	terminals := []Status{StatusCompleted, StatusCanceled, StatusRejected, StatusExpired}

	for _, from := range terminals {
		for _, to := range allStatuses {
			if from == to {
				continue
			}
			if err := CanTransition(from, to); err == nil {
				t.Errorf("terminal %s has outgoing edge to %s", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:    false,
		StatusAccepted:   false,
		StatusInProgress: false,
		StatusCompleted:  true,
		StatusCanceled:   true,
		StatusRejected:   true,
		StatusExpired:    true,
	}

	for s, want := range cases {
		if got := IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestConflictMessageNamesValidSources(t *testing.T) {
	err := CanTransition(StatusCompleted, StatusAccepted)
	if err == nil {
		t.Fatal("expected conflict")
	}

	var be httperr.BusinessError
	if !asBusiness(err, &be) {
		t.Fatalf("expected BusinessError, got %T", err)
	}
	if be.Message != "Only bookings in PENDING can become ACCEPTED" {
		t.Errorf("unexpected message: %q", be.Message)
	}
}

func asBusiness(err error, be *httperr.BusinessError) bool {
	b, ok := err.(httperr.BusinessError)
	if ok {
		*be = b
	}
	return ok
}
