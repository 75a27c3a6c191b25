package booking

import (
	"testing"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
)

func validInput() NewBookingInput {
	return NewBookingInput{
		FamilyID:      1,
		CaregiverID:   2,
		ElderName:     "Dona Maria",
		Location:      "São Paulo",
		Skills:        []string{"medical_care"},
		ScheduleDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:30",
		DurationHours: 2,
		HourlyRate:    20,
	}
}

func TestNewComputesTotalAndSnapshots(t *testing.T) {
	b, err := New(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.TotalAmount != 40 {
		t.Errorf("total = %v, want 40", b.TotalAmount)
	}
	if b.Status != string(StatusPending) {
		t.Errorf("status = %s, want PENDING", b.Status)
	}
	if b.PaymentStatus != string(PaymentUnpaid) {
		t.Errorf("payment status = %s, want UNPAID", b.PaymentStatus)
	}
	if b.RateSnapshot != 20 {
		t.Errorf("rate snapshot = %v, want 20", b.RateSnapshot)
	}
	if len(b.SkillSnapshot) != 1 || b.SkillSnapshot[0] != "medical_care" {
		t.Errorf("skill snapshot = %v", b.SkillSnapshot)
	}
}

func TestTotalAmountFrozenAfterRateChange(t *testing.T) {
	b, err := New(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// totalAmount é snapshot: mudar a taxa depois não recalcula nada
	b.HourlyRate = 100

	if b.TotalAmount != 40 {
		t.Errorf("total changed to %v after rate update", b.TotalAmount)
	}
	if b.RateSnapshot != 20 {
		t.Errorf("rate snapshot changed to %v", b.RateSnapshot)
	}
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*NewBookingInput)
		code   string
	}{
		{"no skills", func(in *NewBookingInput) { in.Skills = nil }, "invalid_skills"},
		{"duration too short", func(in *NewBookingInput) { in.DurationHours = 0.25 }, "invalid_schedule"},
		{"duration too long", func(in *NewBookingInput) { in.DurationHours = 25 }, "invalid_schedule"},
		{"negative rate", func(in *NewBookingInput) { in.HourlyRate = -1 }, "invalid_request"},
		{"bad start time", func(in *NewBookingInput) { in.StartTime = "9h30" }, "invalid_schedule"},
		{"missing elder", func(in *NewBookingInput) { in.ElderName = "" }, "invalid_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := New(in)
			if !httperr.IsBusiness(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestTransitionsSetTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	b, _ := New(validInput())
	if err := Accept(b, now); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if b.AcceptedAt == nil || !b.AcceptedAt.Equal(now) {
		t.Error("acceptedAt not set")
	}
	if !b.CaregiverAcknowledged {
		t.Error("caregiver acknowledgement not set")
	}

	if err := Start(b, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Complete(b, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.CompletedAt == nil {
		t.Error("completedAt not set")
	}

	// estado terminal: nenhuma transição sai daqui e o status não muda
	if err := Cancel(b, RoleFamily, now); err == nil {
		t.Error("cancel after complete should conflict")
	}
	if b.Status != string(StatusCompleted) {
		t.Errorf("status mutated on failed transition: %s", b.Status)
	}
}

func TestRejectDefaultsReason(t *testing.T) {
	now := time.Now()

	b, _ := New(validInput())
	if err := Reject(b, "", now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b.RejectionReason != "No reason provided" {
		t.Errorf("reason = %q", b.RejectionReason)
	}
}

func TestCancelFromAcceptedKeepsPaymentStatus(t *testing.T) {
	now := time.Now()

	b, _ := New(validInput())
	if err := Accept(b, now); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := Cancel(b, RoleFamily, now); err != nil {
		t.Fatalf("cancel from accepted: %v", err)
	}

	if b.Status != string(StatusCanceled) {
		t.Errorf("status = %s", b.Status)
	}
	if b.CanceledByRole != RoleFamily {
		t.Errorf("canceledByRole = %s", b.CanceledByRole)
	}
	if b.PaymentStatus != string(PaymentUnpaid) {
		t.Errorf("payment status changed on cancel: %s", b.PaymentStatus)
	}
}

func TestEndTime(t *testing.T) {
	cases := []struct {
		start    string
		duration float64
		want     string
	}{
		{"09:30", 2, "11:30"},
		{"23:00", 2, "01:00"},
		{"08:00", 0.5, "08:30"},
		{"10:15", 1.75, "12:00"},
	}

	for _, tc := range cases {
		got, err := EndTime(tc.start, tc.duration)
		if err != nil {
			t.Fatalf("EndTime(%s, %v): %v", tc.start, tc.duration, err)
		}
		if got != tc.want {
			t.Errorf("EndTime(%s, %v) = %s, want %s", tc.start, tc.duration, got, tc.want)
		}
	}
}

func TestAuthorize(t *testing.T) {
	const famID, careID = 10, 20

	cases := []struct {
		name  string
		op    Op
		actor Actor
		code  string
	}{
		{"family creates", OpCreate, Actor{ID: famID, Role: RoleFamily}, ""},
		{"care cannot create", OpCreate, Actor{ID: careID, Role: RoleCaregiver}, "forbidden_role"},
		{"owning care accepts", OpAccept, Actor{ID: careID, Role: RoleCaregiver}, ""},
		{"other care accepts", OpAccept, Actor{ID: 99, Role: RoleCaregiver}, "not_party"},
		{"family cannot accept", OpAccept, Actor{ID: famID, Role: RoleFamily}, "forbidden_role"},
		{"owning family cancels", OpCancel, Actor{ID: famID, Role: RoleFamily}, ""},
		{"care cannot cancel", OpCancel, Actor{ID: careID, Role: RoleCaregiver}, "forbidden_role"},
		{"other family cancels", OpCancel, Actor{ID: 99, Role: RoleFamily}, "not_party"},
		{"family starts", OpStart, Actor{ID: famID, Role: RoleFamily}, ""},
		{"care completes", OpComplete, Actor{ID: careID, Role: RoleCaregiver}, ""},
		{"stranger completes", OpComplete, Actor{ID: 99, Role: RoleCaregiver}, "not_party"},
		{"admin views", OpView, Actor{ID: 1, Role: RoleAdmin}, ""},
		{"admin cannot complete", OpComplete, Actor{ID: 1, Role: RoleAdmin}, "forbidden_role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.op, tc.actor, famID, careID)
			if tc.code == "" {
				if err != nil {
					t.Errorf("expected ok, got %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
