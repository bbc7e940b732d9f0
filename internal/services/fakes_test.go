package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeDB is an in-memory stand-in for every store the services use. Apply
// only records batches; tests assert on the recorded paths.
type fakeDB struct {
	members       map[string]models.Member
	admins        map[string]models.Admin
	registrations map[string]models.Registration
	apps          []models.Application
	loans         []models.Loan
	settings      models.Settings
	txs           map[string][]models.Transaction
	dividends     map[int]models.DividendRecord

	batches        []*store.Batch
	applyErr       error
	nextMember     int
	settingsUpdate map[string]any
	memberUpdates  map[string]map[string]any
	adminUpdates   map[string]map[string]any
	reminded       []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		members:       map[string]models.Member{},
		admins:        map[string]models.Admin{},
		registrations: map[string]models.Registration{},
		txs:           map[string][]models.Transaction{},
		dividends:     map[int]models.DividendRecord{},
		memberUpdates: map[string]map[string]any{},
		adminUpdates:  map[string]map[string]any{},
		nextMember:    1,
	}
}

func (f *fakeDB) lastUpdates() map[string]any {
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1].Updates()
}

func (f *fakeDB) Apply(ctx context.Context, b *store.Batch) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.batches = append(f.batches, b)
	return nil
}

// members

func (f *fakeDB) GetMember(ctx context.Context, id string) (*models.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, errs.NewNotFoundError("member not found")
	}
	return &m, nil
}

func (f *fakeDB) ListMembers(ctx context.Context) ([]models.Member, error) {
	out := make([]models.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDB) AllocateMemberID(ctx context.Context) (string, error) {
	id := strconv.Itoa(f.nextMember)
	f.nextMember++
	return id, nil
}

func (f *fakeDB) CreateMember(ctx context.Context, m models.Member) (*models.Member, error) {
	m.ID, _ = f.AllocateMemberID(ctx)
	f.members[m.ID] = m
	return &m, nil
}

func (f *fakeDB) UpdateMember(ctx context.Context, id string, fields map[string]any) error {
	m, ok := f.members[id]
	if !ok {
		return errs.NewNotFoundError("member not found")
	}
	f.memberUpdates[id] = fields
	if v, ok := fields["status"].(string); ok {
		m.Status = v
	}
	if v, ok := fields["email"].(string); ok {
		m.Email = v
	}
	if v, ok := fields["firstName"].(string); ok {
		m.FirstName = v
	}
	f.members[id] = m
	return nil
}

// co-admins

func (f *fakeDB) GetCoAdmin(ctx context.Context, id string) (*models.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, errs.NewNotFoundError("co-admin not found")
	}
	return &a, nil
}

func (f *fakeDB) ListCoAdmins(ctx context.Context) ([]models.Admin, error) {
	out := make([]models.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeDB) CreateCoAdmin(ctx context.Context, a models.Admin) (*models.Admin, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	a.ID = strconv.Itoa(len(f.admins) + 1)
	f.admins[a.ID] = a
	return &a, nil
}

func (f *fakeDB) UpdateCoAdmin(ctx context.Context, id string, fields map[string]any) error {
	if _, ok := f.admins[id]; !ok {
		return errs.NewNotFoundError("co-admin not found")
	}
	f.adminUpdates[id] = fields
	return nil
}

func (f *fakeDB) FindByUID(ctx context.Context, uid string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.UID == uid {
			return &a, nil
		}
	}
	return nil, errs.NewNotFoundError("admin not found")
}

// registrations

func (f *fakeDB) ListRegistrations(ctx context.Context, status string) ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range f.registrations {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDB) GetRegistration(ctx context.Context, status, id string) (*models.Registration, error) {
	r, ok := f.registrations[id]
	if !ok || r.Status != status {
		return nil, errs.NewNotFoundError("registration not found")
	}
	return &r, nil
}

func (f *fakeDB) SubmitRegistration(ctx context.Context, r models.Registration) (*models.Registration, error) {
	r.ID = "reg-" + strconv.Itoa(len(f.registrations)+1)
	r.Status = models.StatusPending
	f.registrations[r.ID] = r
	return &r, nil
}

// applications

func (f *fakeDB) ListApplications(ctx context.Context, kind models.RequestKind, status string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.Kind == kind && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeDB) ListMemberApplications(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.Kind == kind && a.Status == status && a.MemberID == memberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeDB) GetApplication(ctx context.Context, kind models.RequestKind, status, memberID, txID string) (*models.Application, error) {
	for _, a := range f.apps {
		if a.Kind == kind && a.Status == status && a.MemberID == memberID && a.TransactionID == txID {
			return &a, nil
		}
	}
	return nil, errs.NewNotFoundError("application not found")
}

func (f *fakeDB) SubmitApplication(ctx context.Context, app models.Application) error {
	f.apps = append(f.apps, app)
	return nil
}

// loans

func (f *fakeDB) ListCurrentLoans(ctx context.Context) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.Status != models.LoanStatusPaid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDB) ListPaidLoans(ctx context.Context) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.Status == models.LoanStatusPaid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDB) ListMemberCurrentLoans(ctx context.Context, memberID string) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.MemberID == memberID && l.Status != models.LoanStatusPaid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDB) GetCurrentLoan(ctx context.Context, memberID, txID string) (*models.Loan, error) {
	for _, l := range f.loans {
		if l.MemberID == memberID && l.TransactionID == txID && l.Status != models.LoanStatusPaid {
			return &l, nil
		}
	}
	return nil, errs.NewNotFoundError("loan not found")
}

func (f *fakeDB) MarkReminded(ctx context.Context, memberID, txID string, at time.Time) error {
	f.reminded = append(f.reminded, memberID+"/"+txID)
	return nil
}

// settings

func (f *fakeDB) GetSettings(ctx context.Context) (*models.Settings, error) {
	st := f.settings
	return &st, nil
}

func (f *fakeDB) UpdateSettings(ctx context.Context, fields map[string]any) error {
	f.settingsUpdate = fields
	return nil
}

// transactions and dividends

func (f *fakeDB) ListTransactions(ctx context.Context, txType string) ([]models.Transaction, error) {
	return f.txs[txType], nil
}

func (f *fakeDB) ListMemberTransactions(ctx context.Context, memberID, txType string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs[txType] {
		if tx.MemberID == memberID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeDB) addTx(txType, memberID string, amount float64, date time.Time) {
	f.txs[txType] = append(f.txs[txType], models.Transaction{
		TransactionID: strconv.Itoa(len(f.txs[txType]) + 1),
		MemberID:      memberID,
		Type:          txType,
		Amount:        amount,
		Status:        models.StatusApproved,
		Date:          date,
	})
}

func (f *fakeDB) GetDividend(ctx context.Context, year int) (*models.DividendRecord, error) {
	rec, ok := f.dividends[year]
	if !ok {
		return nil, errs.NewNotFoundError("no distribution")
	}
	return &rec, nil
}

// fakeAuth records calls against Firebase Auth.
type fakeAuth struct {
	createErr error
	claimsErr error
	updateErr error
	deleteErr error

	created []string
	deleted []string
	claims  map[string]map[string]interface{}
	updated []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{claims: map[string]map[string]interface{}{}}
}

func (f *fakeAuth) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	uid := "uid-" + strconv.Itoa(len(f.created)+1)
	f.created = append(f.created, uid)
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}}, nil
}

func (f *fakeAuth) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return f.deleteErr
}

func (f *fakeAuth) SetCustomUserClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if f.claimsErr != nil {
		return f.claimsErr
	}
	f.claims[uid] = claims
	return nil
}

func (f *fakeAuth) UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, uid)
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}}, nil
}

type fakeMailer struct {
	sent []dto.EmailMessage
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg dto.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(ctx context.Context, plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

func staticPassword() (string, error) { return "Abc123", nil }

func isErr[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func activeMember(id string, balance, investment float64) models.Member {
	return models.Member{
		ID:            id,
		FirstName:     "Member",
		LastName:      id,
		Email:         "member" + id + "@example.com",
		ContactNumber: "09171234567",
		Balance:       balance,
		Investment:    investment,
		Status:        models.StatusActive,
	}
}
