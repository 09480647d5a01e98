package otp

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/onboard/internal/otp/inbound"
	"github.com/shandysiswandi/onboard/internal/otp/outbound/archive"
	"github.com/shandysiswandi/onboard/internal/otp/outbound/db"
	"github.com/shandysiswandi/onboard/internal/otp/outbound/mq"
	"github.com/shandysiswandi/onboard/internal/otp/outbound/sms"
	"github.com/shandysiswandi/onboard/internal/otp/usecase"
	"github.com/shandysiswandi/onboard/internal/pkg/clock"
	"github.com/shandysiswandi/onboard/internal/pkg/config"
	"github.com/shandysiswandi/onboard/internal/pkg/goroutine"
	"github.com/shandysiswandi/onboard/internal/pkg/hash"
	"github.com/shandysiswandi/onboard/internal/pkg/idempotency"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/jwt"
	"github.com/shandysiswandi/onboard/internal/pkg/messaging"
	"github.com/shandysiswandi/onboard/internal/pkg/router"
	pkgsms "github.com/shandysiswandi/onboard/internal/pkg/sms"
	"github.com/shandysiswandi/onboard/internal/pkg/storage"
	"github.com/shandysiswandi/onboard/internal/pkg/uid"
	"github.com/shandysiswandi/onboard/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	SMS         pkgsms.Gateway             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

// New wires the OTP module and schedules its sweep job on ctx.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoGateway: sms.NewGateway(
			dep.SMS,
			dep.Config.GetSecond("modules.otp.delivery.timeout_seconds"),
			dep.Instrument,
		),
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		HMAC:        dep.HMAC,
		UID:         dep.UID,
		Clock:       dep.Clock,
		JWT:         dep.JWT,
		Instrument:  dep.Instrument,
	}
	if dep.Config.GetBool("modules.otp.sweep.archive.enabled") {
		ucDep.RepoArchive = archive.NewArchive(
			dep.Storage,
			dep.Config.GetString("modules.otp.sweep.archive.bucket"),
			dep.Config.GetString("modules.otp.sweep.archive.prefix"),
			dep.Instrument,
		)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterSweepJob(ctx, dep.Goroutine, dep.Config.GetMinute("modules.otp.sweep.interval_minutes"), uc)

	return nil
}
