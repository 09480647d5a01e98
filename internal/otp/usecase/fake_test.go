package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/clock"
	"github.com/shandysiswandi/onboard/internal/pkg/config"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
	"github.com/shandysiswandi/onboard/internal/pkg/hash"
	"github.com/shandysiswandi/onboard/internal/pkg/idempotency"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/jwt"
	"github.com/shandysiswandi/onboard/internal/pkg/uid"
	"github.com/shandysiswandi/onboard/internal/pkg/validator"
)

// fakeDB mirrors the conditional statements of the postgres repository
// under one mutex, so every method is atomic like a single SQL statement.
type fakeDB struct {
	mu      sync.Mutex
	records map[int64]*entity.Record

	listErrs int
	listCall int
}

func newFakeDB() *fakeDB {
	return &fakeDB{records: map[int64]*entity.Record{}}
}

func (f *fakeDB) CreateCode(_ context.Context, rec entity.NewRecord, policy entity.IssuePolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var issued int64
	for _, r := range f.records {
		if r.Phone != rec.Phone {
			continue
		}
		if policy.Cooldown > 0 && r.Purpose == rec.Purpose && r.CreatedAt.After(rec.CreatedAt.Add(-policy.Cooldown)) {
			return entity.ErrTooSoon
		}
		if r.CreatedAt.After(rec.CreatedAt.Add(-policy.Window)) {
			issued++
		}
	}
	if issued >= policy.MaxIssues {
		return entity.ErrRateLimitExceeded
	}

	for _, r := range f.records {
		if r.Phone == rec.Phone && r.Purpose == rec.Purpose && !r.Used {
			at := rec.CreatedAt
			r.Used, r.UsedAt = true, &at
		}
	}

	f.records[rec.ID] = &entity.Record{
		ID:          rec.ID,
		Phone:       rec.Phone,
		Purpose:     rec.Purpose,
		CodeHash:    rec.CodeHash,
		MaxAttempts: rec.MaxAttempts,
		ExpiresAt:   rec.ExpiresAt,
		CreatedAt:   rec.CreatedAt,
	}
	return nil
}

func (f *fakeDB) GetActiveCode(_ context.Context, phone string, purpose entity.Purpose) (*entity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *entity.Record
	for _, r := range f.records {
		if r.Phone != phone || r.Purpose != purpose || r.Used {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) || (r.CreatedAt.Equal(best.CreatedAt) && r.ID > best.ID) {
			best = r
		}
	}
	if best == nil {
		return nil, goerror.ErrNotFound
	}

	cp := *best
	return &cp, nil
}

func (f *fakeDB) SetDeliveryRef(_ context.Context, id int64, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.records[id]; ok {
		r.DeliveryRef = ref
	}
	return nil
}

func (f *fakeDB) MarkCodeUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok || r.Used {
		return false, nil
	}
	r.Used, r.UsedAt = true, &at
	return true, nil
}

func (f *fakeDB) IncrementAttempts(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok || r.Used || r.Attempts >= r.MaxAttempts {
		return false, nil
	}
	r.Attempts++
	return true, nil
}

func (f *fakeDB) ConsumeCode(_ context.Context, id int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok || r.Used || r.Attempts >= r.MaxAttempts || now.After(r.ExpiresAt) {
		return false, nil
	}
	r.Used, r.UsedAt = true, &now
	return true, nil
}

func (f *fakeDB) ListSweepable(_ context.Context, cutoff, now time.Time, limit int32) ([]entity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCall++
	if f.listCall <= f.listErrs {
		return nil, errors.New("connection reset")
	}

	out := make([]entity.Record, 0)
	for _, r := range f.records {
		if r.CreatedAt.Before(cutoff) && (r.Used || r.ExpiresAt.Before(now)) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDB) DeleteCodes(_ context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := f.records[id]; ok {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) get(id int64) entity.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.records[id]
}

func (f *fakeDB) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []IssuedEvent
	verified []VerifiedEvent
	swept    []SweptEvent
	err      error
}

func (f *fakeMessaging) PublishIssued(_ context.Context, msg IssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)
	return f.err
}

func (f *fakeMessaging) PublishVerified(_ context.Context, msg VerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return f.err
}

func (f *fakeMessaging) PublishSwept(_ context.Context, msg SweptEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept = append(f.swept, msg)
	return f.err
}

type sentMessage struct {
	to   string
	body string
}

type fakeGateway struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeGateway) Send(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentMessage{to: to, body: body})
	if f.err != nil {
		return "", f.err
	}
	return "SM" + strings.Repeat("x", len(f.sent)), nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeArchive struct {
	got []entity.Record
	err error
}

func (f *fakeArchive) Archive(_ context.Context, records []entity.Record, _ time.Time) (string, int64, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	f.got = append(f.got, records...)
	return "otp/archive.ndjson", int64(len(records)), nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// fakeIdempotency keeps key states in memory with the Exec contract of
// the redis tracker.
type fakeIdempotency struct {
	mu     sync.Mutex
	states map[string]idempotency.State
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if st, ok := f.states[key]; ok {
		return st, nil
	}
	f.states[key] = idempotency.StateInProgress
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[key] = idempotency.StateCompleted
	return nil
}

func (f *fakeIdempotency) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[key] = idempotency.StateFailed
	return nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, key)
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	st, err := f.Acquire(ctx, key, time.Minute)
	if err != nil {
		return err
	}
	switch st {
	case idempotency.StateInProgress:
		return idempotency.ErrAlreadyInProgress
	case idempotency.StateCompleted:
		return idempotency.ErrAlreadyCompleted
	case idempotency.StateFailed:
		return idempotency.ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, f.Release(ctx, key))
	}
	return f.MarkCompleted(ctx, key, time.Hour)
}

const testPhone = "+91 98765 43210"

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc      *Usecase
	db      *fakeDB
	mq      *fakeMessaging
	gw      *fakeGateway
	archive *fakeArchive
	clock   *clock.Frozen
	jwt     *jwt.Symmetric
	code    string
}

const baseConfig = `
modules:
  otp:
    code_ttl_minutes: 10
    max_attempts: 3
    rate_limit:
      window_minutes: 5
      max_issues: 3
    resend:
      cooldown_seconds: 60
    sweep:
      retention_minutes: 1440
      batch_size: 100
      archive:
        enabled: true
`

func newFixture(t *testing.T, extraYAML ...string) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(baseConfig+strings.Join(extraYAML, "\n")))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h, err := hash.NewHMACSHA256("test-secret")
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}

	fc := clock.NewFrozen(testNow)
	j, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("j", 64)),
		Issuer: "onboard",
		TTL:    15 * time.Minute,
		Clock:  fc,
		UUID:   uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	fx := &fixture{
		db:      newFakeDB(),
		mq:      &fakeMessaging{},
		gw:      &fakeGateway{},
		archive: &fakeArchive{},
		clock:   fc,
		jwt:     j,
		code:    "482913",
	}

	fx.uc = New(Dependency{
		RepoDB:        fx.db,
		RepoMessaging: fx.mq,
		RepoArchive:   fx.archive,
		RepoGateway:   fx.gw,
		Idempotency:   &fakeIdempotency{states: map[string]idempotency.State{}},
		Validator:     v,
		Config:        cfg,
		HMAC:          h,
		UID:           &seqID{},
		Clock:         fc,
		JWT:           j,
		Instrument:    instrument.NewNoop(),
	})
	fx.uc.newCode = func() (string, error) { return fx.code, nil }
	fx.uc.retryBase = time.Millisecond

	return fx
}

func (fx *fixture) issue(t *testing.T, purpose string) *IssueOutput {
	t.Helper()

	out, err := fx.uc.Issue(context.Background(), IssueInput{Phone: testPhone, Purpose: purpose})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return out
}

func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a goerror", err)
	}
	return gerr.Code()
}
