package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"eventmgt/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
	err    error // if set, Create and Update return this error

	found      []*domain.Event
	count      int
	countErr   error
	demands    []domain.EventDemand
	countCalls int
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
		if e.ID >= f.nextID {
			f.nextID = e.ID + 1
		}
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) FindDemanded(ctx context.Context, d *domain.EventDemand) ([]*domain.Event, error) {
	f.demands = append(f.demands, *d)
	return f.found, nil
}

func (f *fakeEventRepo) CountDemanded(ctx context.Context, d *domain.EventDemand) (int, error) {
	f.countCalls++
	return f.count, f.countErr
}

// fakeRegistrationRepo is an in-memory RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	byID        map[int64]*domain.Registration
	nextID      int64
	fieldValues map[int64][]*domain.FieldValue
	createErr   error
	updateErr   error
	// failInsert makes the n-th row written by CreateWithDependents fail.
	failInsert int
}

func newFakeRegistrationRepo(regs ...*domain.Registration) *fakeRegistrationRepo {
	f := &fakeRegistrationRepo{
		byID:        make(map[int64]*domain.Registration),
		nextID:      1,
		fieldValues: make(map[int64][]*domain.FieldValue),
	}
	for _, r := range regs {
		f.byID[r.ID] = r
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
	return f
}

func (f *fakeRegistrationRepo) sorted(keep func(*domain.Registration) bool) []*domain.Registration {
	out := make([]*domain.Registration, 0)
	for _, r := range f.byID {
		if keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Registration) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	reg.ID = f.nextID
	f.nextID++
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	for rid, r := range f.byID {
		if rid == id || (r.MainRegistrationID != nil && *r.MainRegistrationID == id) {
			delete(f.byID, rid)
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	return f.sorted(func(r *domain.Registration) bool { return r.EventID == eventID }), nil
}

func (f *fakeRegistrationRepo) ListDependent(ctx context.Context, mainID int64) ([]*domain.Registration, error) {
	return f.sorted(func(r *domain.Registration) bool {
		return r.MainRegistrationID != nil && *r.MainRegistrationID == mainID
	}), nil
}

func (f *fakeRegistrationRepo) CountActive(ctx context.Context, eventID int64) (int, error) {
	return len(f.sorted(func(r *domain.Registration) bool {
		return r.EventID == eventID && !r.Waitlist && !r.Hidden
	})), nil
}

func (f *fakeRegistrationRepo) CountByEmail(ctx context.Context, eventID int64, email string) (int, error) {
	return len(f.sorted(func(r *domain.Registration) bool {
		return r.EventID == eventID && !r.Hidden && strings.EqualFold(r.Email, email)
	})), nil
}

func (f *fakeRegistrationRepo) ListWaitlist(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	return f.sorted(func(r *domain.Registration) bool {
		return r.EventID == eventID && r.Waitlist && !r.Hidden && r.MainRegistrationID == nil
	}), nil
}

func (f *fakeRegistrationRepo) ListExpiredUnconfirmed(ctx context.Context, now time.Time) ([]*domain.Registration, error) {
	return f.sorted(func(r *domain.Registration) bool {
		return !r.Confirmed && !r.Hidden && r.MainRegistrationID == nil &&
			r.ConfirmationUntil != nil && r.ConfirmationUntil.Before(now)
	}), nil
}

// CreateWithDependents stages every row and stores them only when all
// writes succeed.
func (f *fakeRegistrationRepo) CreateWithDependents(ctx context.Context, reg *domain.Registration, values []*domain.FieldValue, admit func(active int) error) error {
	if f.createErr != nil {
		return f.createErr
	}
	active, _ := f.CountActive(ctx, reg.EventID)
	if admit != nil {
		if err := admit(active); err != nil {
			return err
		}
	}
	staged := []*domain.Registration{reg}
	for i := 1; i < reg.AmountOfRegistrations; i++ {
		dep := *reg
		dep.AmountOfRegistrations = 1
		dep.FieldValues = nil
		staged = append(staged, &dep)
	}
	if f.failInsert > 0 && f.failInsert <= len(staged) {
		return fmt.Errorf("insert registration %d: db down", f.failInsert)
	}
	reg.ID = f.nextID
	for i, r := range staged {
		r.ID = f.nextID
		f.nextID++
		if i > 0 {
			r.MainRegistrationID = &reg.ID
		}
		f.byID[r.ID] = r
	}
	for _, v := range values {
		v.RegistrationID = reg.ID
	}
	if len(values) > 0 {
		f.fieldValues[reg.ID] = values
	}
	return nil
}

func (f *fakeRegistrationRepo) ListFieldValues(ctx context.Context, registrationID int64) ([]*domain.FieldValue, error) {
	return f.fieldValues[registrationID], nil
}

type fakeFieldRepo struct {
	byEvent map[int64][]*domain.Field
}

func (f *fakeFieldRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Field, error) {
	if f == nil || f.byEvent == nil {
		return []*domain.Field{}, nil
	}
	return f.byEvent[eventID], nil
}

type fakeLocationRepo struct {
	byID    map[int64]*domain.Location
	demands []domain.ForeignRecordDemand
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLocationRepo) FindAll(ctx context.Context) ([]*domain.Location, error) {
	out := make([]*domain.Location, 0, len(f.byID))
	for _, l := range f.byID {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b *domain.Location) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakeLocationRepo) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Location, error) {
	f.demands = append(f.demands, d)
	return f.FindAll(ctx)
}

type fakeOrganisatorRepo struct {
	byID         map[int64]*domain.Organisator
	findAllCalls int
}

func (f *fakeOrganisatorRepo) GetByID(ctx context.Context, id int64) (*domain.Organisator, error) {
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrganisatorRepo) FindAll(ctx context.Context) ([]*domain.Organisator, error) {
	f.findAllCalls++
	out := make([]*domain.Organisator, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *domain.Organisator) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakeOrganisatorRepo) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Organisator, error) {
	return nil, errors.New("unexpected FindDemanded call")
}

type fakeSpeakerRepo struct {
	byID    map[int64]*domain.Speaker
	demands []domain.ForeignRecordDemand
}

func (f *fakeSpeakerRepo) GetByID(ctx context.Context, id int64) (*domain.Speaker, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSpeakerRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Speaker, error) {
	out := make([]*domain.Speaker, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSpeakerRepo) FindAll(ctx context.Context) ([]*domain.Speaker, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return f.ListByIDs(ctx, ids)
}

func (f *fakeSpeakerRepo) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Speaker, error) {
	f.demands = append(f.demands, d)
	return f.FindAll(ctx)
}

// fakeCategoryRepo stores the category tree as child to parent links.
type fakeCategoryRepo struct {
	categories map[int64]*domain.Category
	childCalls [][]int64
	childErr   error
	demands    []domain.ForeignRecordDemand
}

func newFakeCategoryRepo(parents map[int64]int64) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: make(map[int64]*domain.Category)}
	for child, parent := range parents {
		p := parent
		f.categories[child] = &domain.Category{ID: child, ParentID: &p, Title: "cat-" + strconv.FormatInt(child, 10)}
		if _, ok := f.categories[parent]; !ok {
			f.categories[parent] = &domain.Category{ID: parent, Title: "cat-" + strconv.FormatInt(parent, 10)}
		}
	}
	return f
}

func (f *fakeCategoryRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	f.childCalls = append(f.childCalls, slices.Clone(parentIDs))
	if f.childErr != nil {
		return nil, f.childErr
	}
	var out []int64
	for id, c := range f.categories {
		if c.ParentID != nil && slices.Contains(parentIDs, *c.ParentID) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]*domain.Category, error) {
	ids := make([]int64, 0, len(f.categories))
	for id := range f.categories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return f.ListByIDs(ctx, ids)
}

func (f *fakeCategoryRepo) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Category, error) {
	f.demands = append(f.demands, d)
	return f.FindAll(ctx)
}

type fakeCategoryCache struct {
	entries map[string][]int64
	getErr  error
	setErr  error
	ttls    []time.Duration
}

func newFakeCategoryCache() *fakeCategoryCache {
	return &fakeCategoryCache{entries: make(map[string][]int64)}
}

func (f *fakeCategoryCache) Get(ctx context.Context, key string) ([]int64, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	ids, ok := f.entries[key]
	return ids, ok, nil
}

func (f *fakeCategoryCache) Set(ctx context.Context, key string, ids []int64, ttl time.Duration) error {
	f.ttls = append(f.ttls, ttl)
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = ids
	return nil
}

// fakeTokens encodes tokens as "purpose:id" and rejects ids listed in expired.
type fakeTokens struct {
	issued  []string
	expires map[string]time.Time
	expired map[int64]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{expires: make(map[string]time.Time), expired: make(map[int64]bool)}
}

func (f *fakeTokens) Issue(registrationID int64, purpose string, expiresAt time.Time) (string, error) {
	tok := fmt.Sprintf("%s:%d", purpose, registrationID)
	f.issued = append(f.issued, tok)
	f.expires[tok] = expiresAt
	return tok, nil
}

func (f *fakeTokens) Verify(token, purpose string) (int64, error) {
	p, rawID, ok := strings.Cut(token, ":")
	if !ok || p != purpose {
		return 0, domain.ErrInvalidToken
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	if f.expired[id] {
		return 0, domain.ErrTokenExpired
	}
	return id, nil
}

type fakeDispatcher struct {
	sent []*domain.Notification
	err  error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, n *domain.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeDispatcher) types() []string {
	out := make([]string, 0, len(f.sent))
	for _, n := range f.sent {
		out = append(out, string(n.Type)+"/"+string(n.Recipient))
	}
	return out
}

type sentMail struct {
	to, replyTo, subject, html, text string
}

type fakeMailer struct {
	sent   []sentMail
	failTo map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if err := f.failTo[msg.To]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMail{to: msg.To, replyTo: msg.ReplyTo, subject: msg.Subject, html: msg.HTML, text: msg.Text})
	return nil
}

type fakeRenderer struct {
	names []string
	data  []any
	err   error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	f.names = append(f.names, name)
	f.data = append(f.data, data)
	return "subject:" + name, "<p>" + name + "</p>", name, nil
}

type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	nextID    int64
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = f.nextID
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.LastLoginAt = &at
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// fakeHasher hashes by concatenation.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) { return salt + "|" + password, nil }

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+"|"+password {
		return domain.ErrUnauthorized
	}
	return nil
}

type fakeIssuer struct {
	userID string
	roles  []string
	expiry time.Duration
}

func (f *fakeIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.userID, f.roles, f.expiry = userID, roles, expiry
	return "token-" + userID, nil
}
