package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/onboard/internal/pkg/clock"
	"github.com/shandysiswandi/onboard/internal/pkg/config"
	"github.com/shandysiswandi/onboard/internal/pkg/goroutine"
	"github.com/shandysiswandi/onboard/internal/pkg/hash"
	"github.com/shandysiswandi/onboard/internal/pkg/idempotency"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/jwt"
	"github.com/shandysiswandi/onboard/internal/pkg/messaging"
	"github.com/shandysiswandi/onboard/internal/pkg/router"
	"github.com/shandysiswandi/onboard/internal/pkg/sms"
	"github.com/shandysiswandi/onboard/internal/pkg/storage"
	"github.com/shandysiswandi/onboard/internal/pkg/uid"
	"github.com/shandysiswandi/onboard/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Client
	storage   storage.Storage
	sms       sms.Gateway

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initSMS()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
