package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	payments   map[string]*models.Payment // por intentID
	nextID     uint
	jobPosts   map[uint]*models.JobPost
	apps       map[[2]uint]bool // jobPostID, caregiverID
	caregivers map[uint]*models.Caregiver

	markCompletedErrs int // falhas transitórias restantes
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		payments:   map[string]*models.Payment{},
		nextID:     1,
		jobPosts:   map[uint]*models.JobPost{},
		apps:       map[[2]uint]bool{},
		caregivers: map[uint]*models.Caregiver{},
	}
}

func (r *fakeRepo) ExistsForTriple(_ context.Context, jobPostID, caregiverID, familyID uint) (bool, error) {
	for _, p := range r.payments {
		if p.JobPostID == jobPostID && p.CaregiverID == caregiverID && p.FamilyID == familyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, p *models.Payment) error {
	p.ID = r.nextID
	r.nextID++
	copied := *p
	r.payments[p.IntentID] = &copied
	return nil
}

func (r *fakeRepo) GetByIntentID(_ context.Context, intentID string) (*models.Payment, error) {
	p, ok := r.payments[intentID]
	if !ok {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) MarkCompleted(_ context.Context, intentID string) (*models.Payment, bool, error) {
	if r.markCompletedErrs > 0 {
		r.markCompletedErrs--
		return nil, false, errors.New("db unavailable")
	}
	p, ok := r.payments[intentID]
	if !ok {
		return nil, false, httperr.ErrBusiness("payment_not_found")
	}
	if p.PaymentStatus == string(domain.PaymentCompleted) {
		copied := *p
		return &copied, false, nil
	}
	p.PaymentStatus = string(domain.PaymentCompleted)
	p.TransferStatus = string(domain.TransferPaid)
	copied := *p
	return &copied, true, nil
}

func (r *fakeRepo) MarkRejected(_ context.Context, intentID string) (bool, error) {
	p, ok := r.payments[intentID]
	if !ok {
		return false, httperr.ErrBusiness("payment_not_found")
	}
	if p.PaymentStatus == string(domain.PaymentRejected) {
		return false, nil
	}
	p.PaymentStatus = string(domain.PaymentRejected)
	return true, nil
}

func (r *fakeRepo) AttachTransfer(_ context.Context, destinationAccount, transferID string) error {
	for _, p := range r.payments {
		if p.ConnectAccountID == destinationAccount && p.TransferID == "" {
			p.TransferID = transferID
			p.TransferStatus = string(domain.TransferPaid)
			return nil
		}
	}
	return httperr.ErrBusiness("payment_not_found")
}

func (r *fakeRepo) MarkTransferFailed(_ context.Context, transferID, destinationAccount string) error {
	for _, p := range r.payments {
		if p.TransferID == transferID || (transferID == "" && p.ConnectAccountID == destinationAccount) {
			p.TransferStatus = string(domain.TransferFailed)
			return nil
		}
	}
	return httperr.ErrBusiness("payment_not_found")
}

func (r *fakeRepo) ListForFamily(context.Context, uint, domain.ListFilter) ([]models.Payment, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListForCaregiver(context.Context, uint, domain.ListFilter) ([]models.Payment, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) GetForUser(context.Context, uint, string, uint) (*models.Payment, error) {
	return nil, httperr.ErrBusiness("payment_not_found")
}

func (r *fakeRepo) GetStats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{}, nil
}

func (r *fakeRepo) GetJobPostForFamily(_ context.Context, jobPostID, familyID uint) (*models.JobPost, error) {
	jp, ok := r.jobPosts[jobPostID]
	if !ok || jp.FamilyID != familyID {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	copied := *jp
	return &copied, nil
}

func (r *fakeRepo) HasApplication(_ context.Context, jobPostID, caregiverID uint) (bool, error) {
	return r.apps[[2]uint{jobPostID, caregiverID}], nil
}

func (r *fakeRepo) GetCaregiver(_ context.Context, id uint) (*models.Caregiver, error) {
	cg, ok := r.caregivers[id]
	if !ok {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}
	copied := *cg
	return &copied, nil
}

func (r *fakeRepo) FindCaregiverByAccountID(_ context.Context, accountID string) (*models.Caregiver, error) {
	for _, cg := range r.caregivers {
		if cg.ConnectAccount.AccountID == accountID {
			copied := *cg
			return &copied, nil
		}
	}
	return nil, httperr.ErrBusiness("caregiver_not_found")
}

func (r *fakeRepo) UpdateConnectAccount(_ context.Context, caregiverID uint, acct models.ConnectAccount) error {
	cg, ok := r.caregivers[caregiverID]
	if !ok {
		return httperr.ErrBusiness("caregiver_not_found")
	}
	cg.ConnectAccount = acct
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeProcessor struct {
	intents     int
	lastIntent  domain.IntentInput
	failIntents bool

	accountFlags domain.AccountFlags
	event        domain.Event
	badSignature bool
}

func (f *fakeProcessor) CreateDestinationIntent(_ context.Context, in domain.IntentInput) (*domain.IntentResult, error) {
	if f.failIntents {
		return nil, errors.New("processor down")
	}
	f.intents++
	f.lastIntent = in
	return &domain.IntentResult{IntentID: "pi_test_1", ClientSecret: "pi_test_1_secret"}, nil
}

func (f *fakeProcessor) CreateExpressAccount(context.Context, domain.AccountInput) (string, error) {
	return "acct_test_1", nil
}

func (f *fakeProcessor) AccountLink(_ context.Context, accountID, refreshURL, returnURL string) (string, error) {
	return "https://onboard.example/" + accountID, nil
}

func (f *fakeProcessor) LoginLink(_ context.Context, accountID string) (string, error) {
	return "https://dashboard.example/" + accountID, nil
}

func (f *fakeProcessor) RetrieveAccount(context.Context, string) (domain.AccountFlags, error) {
	return f.accountFlags, nil
}

func (f *fakeProcessor) RetrieveBalance(context.Context, string) (*domain.Balance, error) {
	return &domain.Balance{Available: 100, Pending: 20}, nil
}

func (f *fakeProcessor) ParseWebhook(payload []byte, signature, secret string) (domain.Event, error) {
	if f.badSignature {
		return domain.Event{}, errors.New("signature mismatch")
	}
	return f.event, nil
}

var _ domain.Processor = (*fakeProcessor)(nil)

type fakeIdem struct {
	seen map[string]bool
}

func (f *fakeIdem) Seen(_ context.Context, eventID string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[eventID] {
		return true, nil
	}
	f.seen[eventID] = true
	return false, nil
}

func (f *fakeIdem) Forget(_ context.Context, eventID string) error {
	delete(f.seen, eventID)
	return nil
}

type fakeAudit struct {
	events []audit.Event
}

func (f *fakeAudit) Dispatch(ev audit.Event) { f.events = append(f.events, ev) }

type fakeNotify struct {
	messages []notification.Message
}

func (f *fakeNotify) Dispatch(m notification.Message) { f.messages = append(f.messages, m) }

// ======================================================
// HELPERS
// ======================================================

const (
	famID  = uint(10)
	careID = uint(20)
	jobID  = uint(30)
)

func seed(repo *fakeRepo, accountStatus string, charges, payouts bool) {
	repo.jobPosts[jobID] = &models.JobPost{
		ID:            jobID,
		FamilyID:      famID,
		Salary:        100,
		DurationHours: 4,
		Status:        models.JobPostStatusActive,
	}
	repo.apps[[2]uint{jobID, careID}] = true
	repo.caregivers[careID] = &models.Caregiver{
		ID:             careID,
		Name:           "Ana Souza",
		Email:          "ana@example.com",
		PhoneNo:        "11999990000",
		VerifiedStatus: models.VerifiedStatusVerified,
		ConnectAccount: models.ConnectAccount{
			AccountID:      "acct_test_1",
			AccountStatus:  accountStatus,
			ChargesEnabled: charges,
			PayoutsEnabled: payouts,
		},
	}
}

// ======================================================
// CREATE INTENT
// ======================================================

func TestCreateIntentSplitsFee(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	proc := &fakeProcessor{}

	uc := NewCreateIntent(repo, proc, &fakeAudit{})
	res, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	// o bruto é o salário do post (100), nunca salário × horas; taxa 5
	if res.Payment.Amount != 100 || res.Payment.PlatformFee != 5 || res.Payment.NetAmount != 95 {
		t.Errorf("amounts = %v / %v / %v", res.Payment.Amount, res.Payment.PlatformFee, res.Payment.NetAmount)
	}
	if res.ClientSecret != "pi_test_1_secret" {
		t.Errorf("client secret = %q", res.ClientSecret)
	}
	if proc.lastIntent.DestinationAccount != "acct_test_1" {
		t.Errorf("destination = %q", proc.lastIntent.DestinationAccount)
	}
	if proc.lastIntent.IdempotencyKey == "" {
		t.Error("idempotency key missing")
	}
	if res.Payment.PaymentStatus != string(domain.PaymentPending) {
		t.Errorf("status = %s", res.Payment.PaymentStatus)
	}
}

func TestCreateIntentInactiveAccount(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountPending), false, false)

	uc := NewCreateIntent(repo, &fakeProcessor{}, &fakeAudit{})
	_, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID})
	if !httperr.IsBusiness(err, "account_not_active") {
		t.Errorf("expected account_not_active, got %v", err)
	}
}

func TestCreateIntentWithoutApplication(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	delete(repo.apps, [2]uint{jobID, careID})

	uc := NewCreateIntent(repo, &fakeProcessor{}, &fakeAudit{})
	_, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID})
	if !httperr.IsBusiness(err, "did_not_apply") {
		t.Errorf("expected did_not_apply, got %v", err)
	}
}

func TestCreateIntentDuplicateTriple(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)

	uc := NewCreateIntent(repo, &fakeProcessor{}, &fakeAudit{})
	if _, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID}); err != nil {
		t.Fatalf("first intent: %v", err)
	}

	_, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID})
	if !httperr.IsBusiness(err, "duplicate_payment") {
		t.Errorf("expected duplicate_payment, got %v", err)
	}
}

func TestCreateIntentProcessorDownLeavesNoRow(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	proc := &fakeProcessor{failIntents: true}

	uc := NewCreateIntent(repo, proc, &fakeAudit{})
	_, err := uc.Execute(context.Background(), famID, CreateIntentInput{JobPostID: jobID, CaregiverID: careID})
	if !httperr.IsBusiness(err, "processor_unavailable") {
		t.Errorf("expected processor_unavailable, got %v", err)
	}
	if len(repo.payments) != 0 {
		t.Errorf("payments persisted: %d", len(repo.payments))
	}
}

// ======================================================
// WEBHOOK
// ======================================================

func seedPayment(repo *fakeRepo) {
	repo.payments["pi_test_1"] = &models.Payment{
		ID:               1,
		IntentID:         "pi_test_1",
		PaymentStatus:    string(domain.PaymentPending),
		FamilyID:         famID,
		CaregiverID:      careID,
		JobPostID:        jobID,
		ConnectAccountID: "acct_test_1",
		TransferStatus:   string(domain.TransferPending),
	}
}

func TestWebhookIntentSucceededNotifiesOnce(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	seedPayment(repo)

	proc := &fakeProcessor{event: domain.Event{
		ID:       "evt_1",
		Kind:     domain.EventIntentSucceeded,
		IntentID: "pi_test_1",
	}}
	not := &fakeNotify{}
	uc := NewWebhook(repo, proc, &fakeIdem{}, not, "whsec_pay", "whsec_conn")

	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	p := repo.payments["pi_test_1"]
	if p.PaymentStatus != string(domain.PaymentCompleted) {
		t.Errorf("status = %s", p.PaymentStatus)
	}
	if p.TransferStatus != string(domain.TransferPaid) {
		t.Errorf("transfer status = %s", p.TransferStatus)
	}

	// as duas pontas recebem aviso, uma vez cada
	if len(not.messages) != 2 {
		t.Fatalf("notifications = %+v", not.messages)
	}
	if not.messages[0].Type != notification.TypePaymentReceived || not.messages[0].Recipient != models.RecipientCaregiver {
		t.Errorf("caregiver notification = %+v", not.messages[0])
	}
	if not.messages[1].Type != notification.TypePaymentConfirmed || not.messages[1].Recipient != models.RecipientFamily {
		t.Errorf("family notification = %+v", not.messages[1])
	}

	// replay do mesmo evento: aceito, sem novas notificações
	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(not.messages) != 2 {
		t.Errorf("notified %d times", len(not.messages))
	}
}

func TestWebhookRetryAfterRepoFailureStillApplies(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	seedPayment(repo)
	repo.markCompletedErrs = 1

	proc := &fakeProcessor{event: domain.Event{
		ID:       "evt_1",
		Kind:     domain.EventIntentSucceeded,
		IntentID: "pi_test_1",
	}}
	not := &fakeNotify{}
	uc := NewWebhook(repo, proc, &fakeIdem{}, not, "whsec_pay", "whsec_conn")

	// a primeira entrega falha no banco; o erro sobe para o processador
	// reentregar
	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err == nil {
		t.Fatal("expected transient failure")
	}
	if repo.payments["pi_test_1"].PaymentStatus != string(domain.PaymentPending) {
		t.Fatalf("status = %s", repo.payments["pi_test_1"].PaymentStatus)
	}

	// o retry do mesmo evento não pode ficar preso na guarda de replay
	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if repo.payments["pi_test_1"].PaymentStatus != string(domain.PaymentCompleted) {
		t.Errorf("status = %s after retry", repo.payments["pi_test_1"].PaymentStatus)
	}
	if len(not.messages) != 2 {
		t.Errorf("notified %d times, want 2 (one per party)", len(not.messages))
	}
}

func TestWebhookReplayWithoutIdemStoreStillNotifiesOnce(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	seedPayment(repo)

	// IDs de evento distintos para o mesmo intent; a escrita condicional
	// segura o efeito mesmo sem a guarda do redis
	proc := &fakeProcessor{event: domain.Event{
		ID:       "evt_1",
		Kind:     domain.EventIntentSucceeded,
		IntentID: "pi_test_1",
	}}
	not := &fakeNotify{}
	uc := NewWebhook(repo, proc, nil, not, "whsec_pay", "whsec_conn")

	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	proc.event.ID = "evt_2"
	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if len(not.messages) != 2 {
		t.Errorf("notified %d times, want 2 (one per party)", len(not.messages))
	}
}

func TestWebhookBadSignature(t *testing.T) {
	repo := newFakeRepo()
	proc := &fakeProcessor{badSignature: true}
	uc := NewWebhook(repo, proc, &fakeIdem{}, &fakeNotify{}, "whsec_pay", "whsec_conn")

	err := uc.ApplyPayment(context.Background(), []byte("{}"), "bad")
	if !httperr.IsBusiness(err, "invalid_signature") {
		t.Errorf("expected invalid_signature, got %v", err)
	}
}

func TestWebhookUnknownEventAccepted(t *testing.T) {
	repo := newFakeRepo()
	proc := &fakeProcessor{event: domain.Event{ID: "evt_x", Kind: domain.EventUnknown}}
	uc := NewWebhook(repo, proc, &fakeIdem{}, &fakeNotify{}, "whsec_pay", "whsec_conn")

	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("unknown event rejected: %v", err)
	}
}

func TestWebhookUnknownIntentAccepted(t *testing.T) {
	repo := newFakeRepo()
	proc := &fakeProcessor{event: domain.Event{
		ID:       "evt_y",
		Kind:     domain.EventIntentSucceeded,
		IntentID: "pi_missing",
	}}
	uc := NewWebhook(repo, proc, &fakeIdem{}, &fakeNotify{}, "whsec_pay", "whsec_conn")

	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("unknown intent rejected: %v", err)
	}
}

func TestWebhookTransferLifecycle(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountActive), true, true)
	seedPayment(repo)

	proc := &fakeProcessor{event: domain.Event{
		ID:          "evt_t1",
		Kind:        domain.EventTransferCreated,
		TransferID:  "tr_1",
		Destination: "acct_test_1",
	}}
	uc := NewWebhook(repo, proc, &fakeIdem{}, &fakeNotify{}, "whsec_pay", "whsec_conn")

	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("transfer created: %v", err)
	}
	p := repo.payments["pi_test_1"]
	if p.TransferID != "tr_1" || p.TransferStatus != string(domain.TransferPaid) {
		t.Errorf("transfer = %s / %s", p.TransferID, p.TransferStatus)
	}

	proc.event = domain.Event{
		ID:          "evt_t2",
		Kind:        domain.EventTransferFailed,
		TransferID:  "tr_1",
		Destination: "acct_test_1",
	}
	if err := uc.ApplyPayment(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if p.TransferStatus != string(domain.TransferFailed) {
		t.Errorf("transfer status = %s", p.TransferStatus)
	}
}

func TestWebhookAccountUpdated(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountPending), false, false)

	proc := &fakeProcessor{event: domain.Event{
		ID:        "evt_a1",
		Kind:      domain.EventAccountUpdated,
		AccountID: "acct_test_1",
		Flags: domain.AccountFlags{
			DetailsSubmitted: true,
			ChargesEnabled:   true,
			PayoutsEnabled:   true,
		},
	}}
	uc := NewWebhook(repo, proc, &fakeIdem{}, &fakeNotify{}, "whsec_pay", "whsec_conn")

	if err := uc.ApplyConnect(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("account updated: %v", err)
	}

	acct := repo.caregivers[careID].ConnectAccount
	if acct.AccountStatus != string(domain.AccountActive) {
		t.Errorf("status = %s", acct.AccountStatus)
	}
	if !acct.OnboardingComplete {
		t.Error("onboarding not marked complete")
	}
}

// ======================================================
// CONNECT COORDINATOR
// ======================================================

func TestCreateAccountOncePerCaregiver(t *testing.T) {
	repo := newFakeRepo()
	repo.caregivers[careID] = &models.Caregiver{
		ID:             careID,
		Name:           "Ana Souza",
		Email:          "ana@example.com",
		VerifiedStatus: models.VerifiedStatusVerified,
	}

	uc := NewConnectAccounts(repo, &fakeProcessor{}, &fakeAudit{}, "https://app.example")
	acct, err := uc.CreateAccount(context.Background(), careID)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acct.AccountID != "acct_test_1" || acct.AccountStatus != string(domain.AccountPending) {
		t.Errorf("account = %+v", acct)
	}

	_, err = uc.CreateAccount(context.Background(), careID)
	if !httperr.IsBusiness(err, "account_exists") {
		t.Errorf("expected account_exists, got %v", err)
	}
}

func TestCreateAccountRequiresVerified(t *testing.T) {
	repo := newFakeRepo()
	repo.caregivers[careID] = &models.Caregiver{
		ID:             careID,
		VerifiedStatus: models.VerifiedStatusUnverified,
	}

	uc := NewConnectAccounts(repo, &fakeProcessor{}, &fakeAudit{}, "https://app.example")
	_, err := uc.CreateAccount(context.Background(), careID)
	if !httperr.IsBusiness(err, "not_verified") {
		t.Errorf("expected not_verified, got %v", err)
	}
}

func TestDashboardLinkOnlyWhenActive(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountPending), false, false)

	uc := NewConnectAccounts(repo, &fakeProcessor{}, &fakeAudit{}, "https://app.example")
	_, err := uc.DashboardLink(context.Background(), careID)
	if !httperr.IsBusiness(err, "account_not_active") {
		t.Errorf("expected account_not_active, got %v", err)
	}
}

func TestRefreshStatusMatchesWebhookDerivation(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, string(domain.AccountPending), false, false)

	flags := domain.AccountFlags{DetailsSubmitted: true, ChargesEnabled: false, PayoutsEnabled: true, DisabledReason: "requirements.past_due"}
	proc := &fakeProcessor{accountFlags: flags}

	uc := NewConnectAccounts(repo, proc, &fakeAudit{}, "https://app.example")
	acct, err := uc.RefreshStatus(context.Background(), careID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if acct.AccountStatus != string(domain.StatusFromFlags(flags)) {
		t.Errorf("status = %s", acct.AccountStatus)
	}
	if acct.AccountStatus != string(domain.AccountRestricted) {
		t.Errorf("expected RESTRICTED, got %s", acct.AccountStatus)
	}
}
