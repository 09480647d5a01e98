package usecase

import (
	"context"
	"errors"
	"log/slog"
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
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

type IssuedEvent struct {
	RecordID    int64
	Phone       string
	Purpose     entity.Purpose
	ExpiresAt   time.Time
	DeliveryRef string
	Resend      bool
}

type VerifiedEvent struct {
	RecordID   int64
	Phone      string
	Purpose    entity.Purpose
	VerifiedAt time.Time
}

type SweptEvent struct {
	Deleted    int64
	Archived   int64
	ArchiveKey string
	SweptAt    time.Time
}

type repoMessaging interface {
	PublishIssued(ctx context.Context, msg IssuedEvent) error
	PublishVerified(ctx context.Context, msg VerifiedEvent) error
	PublishSwept(ctx context.Context, msg SweptEvent) error
}

// repoDB returns entity.ErrRateLimitExceeded or entity.ErrTooSoon from
// CreateCode when the policy rejects the issue. The bool results of the
// conditional updates report whether exactly one row changed.
type repoDB interface {
	CreateCode(ctx context.Context, rec entity.NewRecord, policy entity.IssuePolicy) error
	GetActiveCode(ctx context.Context, phone string, purpose entity.Purpose) (*entity.Record, error)
	SetDeliveryRef(ctx context.Context, id int64, ref string) error
	MarkCodeUsed(ctx context.Context, id int64, at time.Time) (bool, error)
	IncrementAttempts(ctx context.Context, id int64) (bool, error)
	ConsumeCode(ctx context.Context, id int64, now time.Time) (bool, error)
	ListSweepable(ctx context.Context, cutoff, now time.Time, limit int32) ([]entity.Record, error)
	DeleteCodes(ctx context.Context, ids []int64) (int64, error)
}

type repoArchive interface {
	Archive(ctx context.Context, records []entity.Record, at time.Time) (key string, n int64, err error)
}

type repoGateway interface {
	Send(ctx context.Context, to, body string) (ref string, err error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoArchive   repoArchive
	repoGateway   repoGateway
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation

	newCode   func() (string, error)
	sweeping  atomic.Bool
	retryBase time.Duration
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoArchive   repoArchive
	RepoGateway   repoGateway
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoArchive:   dep.RepoArchive,
		repoGateway:   dep.RepoGateway,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		newCode:       entity.NewCode,
		retryBase:     200 * time.Millisecond,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) normalizePhone(raw string) (string, error) {
	sub, err := s.phonePlan().Normalize(raw)
	if err != nil {
		return "", goerror.NewInvalidInput(nil, "phone", "phone must be a valid mobile number")
	}
	return sub, nil
}

// once runs fn at most once per client supplied key. Without a key fn runs directly.
func (s *Usecase) once(ctx context.Context, op, phone, key string, fn func(context.Context) error) error {
	if key == "" || s.idemp == nil {
		return fn(ctx)
	}

	err := s.idemp.Exec(ctx, "otp:"+op+":"+phone+":"+key, fn, idempotency.WithReleaseOnFailure())
	if errors.Is(err, idempotency.ErrAlreadyInProgress) ||
		errors.Is(err, idempotency.ErrAlreadyCompleted) ||
		errors.Is(err, idempotency.ErrAlreadyFailed) {
		slog.WarnContext(ctx, "duplicate otp request", "op", op, "phone", phone)
		return goerror.NewBusiness("Duplicate request", goerror.CodeConflict)
	}

	var gerr *goerror.Error
	if err != nil && !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "failed to track idempotency key", "op", op, "error", err)
		return goerror.NewServer(err)
	}

	return err
}
