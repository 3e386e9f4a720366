package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocharity/internal/pkg/attempt"
	"github.com/shandysiswandi/gocharity/internal/pkg/clock"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/encrypt"
	"github.com/shandysiswandi/gocharity/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocharity/internal/pkg/hash"
	"github.com/shandysiswandi/gocharity/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/mail"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/pkg/otp"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/sms"
	"github.com/shandysiswandi/gocharity/internal/pkg/storage"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
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
	password  hash.Hash
	otpDigest hash.Hash
	encryptor encrypt.Encryptor
	otp       otp.Generator
	uid       uid.NumberID
	uuid      uid.StringID
	token     uid.StringID

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	sessions  *session.Manager
	idemp     idempotency.Guard
	attempts  attempt.Counter
	mail      mail.Mail
	sms       sms.SMS
	messaging messaging.Messaging
	storage   storage.Storage

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
	app.initDatabase()
	app.initCache()
	app.initSession()
	app.initMail()
	app.initSMS()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
