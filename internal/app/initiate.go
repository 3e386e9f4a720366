package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
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
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("telemetry.enabled"),
		ServiceName:      a.config.GetString("telemetry.service_name"),
		ServiceVersion:   a.config.GetString("telemetry.service_version"),
		Environment:      a.config.GetString("telemetry.env"),
		OTLPEndpoint:     a.config.GetString("telemetry.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("telemetry.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("telemetry.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("telemetry.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("telemetry.log_mask_fields"),
		Debug:            a.config.GetBool("app.debug"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.token = uid.NewToken()
	a.otp = otp.NewHOTP(6)
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	otpDigest, err := hash.NewHMACSHA256([]byte(a.config.GetString("modules.account.otp_hmac_key")))
	if err != nil {
		slog.Error("failed to init otp digest, modules.account.otp_hmac_key must be at least 32 bytes", "error", err)
		os.Exit(1)
	}
	a.otpDigest = otpDigest

	switch hasher := a.config.GetString("modules.account.password_hasher"); hasher {
	case "argon2id":
		a.password = hash.NewArgon2id(a.config.GetString("hash.argon2id.pepper"))
	case "", "bcrypt":
		a.password = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))
	default:
		slog.Error("unknown password hasher", "hasher", hasher)
		os.Exit(1)
	}

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	enc, err := encrypt.NewAESGCM(a.config.GetBinary("modules.account.nc_key"))
	if err != nil {
		slog.Error("failed to init national code encryptor, key must be base64 of 32 bytes", "error", err)
		os.Exit(1)
	}
	a.encryptor = enc
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = int32(a.config.GetInt("database.pool.max_conns"))
	config.MinConns = int32(a.config.GetInt("database.pool.min_conns"))
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

// initCache connects to Redis when redis.url is set. Without it sessions,
// idempotency keys and attempt counters live in process memory, which only
// suits a single instance.
func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Warn("redis.url is empty, using in-memory sessions, idempotency and otp attempts")
		a.idemp = idempotency.NewMemory()
		a.attempts = attempt.NewMemory()
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
	a.attempts = attempt.NewRedis(a.cacheConn)
}

func (a *App) initSession() {
	var store scs.Store = memstore.New()
	if a.cacheConn != nil {
		store = session.NewRedisStore(a.cacheConn, a.config.GetString("session.prefix"))
	}

	a.sessions = session.NewManager(store, session.Options{
		CookieName:  a.config.GetString("session.cookie_name"),
		Domain:      a.config.GetString("session.cookie_domain"),
		Secure:      a.config.GetBool("session.cookie_secure"),
		TTL:         a.config.GetMinute("session.ttl_minutes"),
		IdleTimeout: a.config.GetMinute("session.idle_timeout_minutes"),
	})
}

func (a *App) initMail() {
	var (
		client mail.Mail
		err    error
	)

	switch driver := a.config.GetString("mail.driver"); driver {
	case "smtp":
		client, err = mail.NewSMTP(mail.SMTPConfig{
			Host:     a.config.GetString("mail.smtp.host"),
			Port:     a.config.GetInt("mail.smtp.port"),
			Username: a.config.GetString("mail.smtp.username"),
			Password: a.config.GetString("mail.smtp.password"),
			From:     a.config.GetString("mail.from"),
			SSL:      a.config.GetBool("mail.smtp.ssl"),
		})
	case "sendgrid":
		client, err = mail.NewSendGrid(mail.SendGridConfig{
			APIKey:   a.config.GetString("mail.sendgrid.api_key"),
			From:     a.config.GetString("mail.from"),
			FromName: a.config.GetString("app.name"),
			Sandbox:  a.config.GetBool("mail.sendgrid.sandbox"),
		})
	case "", "log":
		client = mail.NewLog(a.config.GetString("mail.from"))
	default:
		slog.Error("unknown mail driver", "driver", driver)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = client
}

func (a *App) initSMS() {
	switch driver := a.config.GetString("sms.driver"); driver {
	case "twilio":
		client, err := sms.NewTwilio(sms.TwilioConfig{
			AccountSID:  a.config.GetString("sms.twilio.account_sid"),
			AuthToken:   a.config.GetString("sms.twilio.auth_token"),
			From:        a.config.GetString("sms.twilio.from"),
			CountryCode: a.config.GetString("sms.twilio.country_code"),
		})
		if err != nil {
			slog.Error("failed to init sms", "error", err)
			os.Exit(1)
		}
		a.sms = client
	case "", "log":
		a.sms = sms.NewLog()
	default:
		slog.Error("unknown sms driver", "driver", driver)
		os.Exit(1)
	}
}

// googleOptions builds client options for Google APIs from the keys under prefix.
func (a *App) googleOptions(prefix string, scopes ...string) []option.ClientOption {
	opts := []option.ClientOption{}
	if a.config.GetBool(prefix + ".without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials json", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}

	return opts
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsClient *gcs.Client
	if driver == storage.DriverGCS {
		client, err := gcs.NewClient(a.ctx, a.googleOptions("storage.gcs", gcs.ScopeFullControl)...)
		if err != nil {
			slog.Error("failed to init gcs client", "error", err)
			os.Exit(1)
		}
		gcsClient = client
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		Bucket: strings.TrimSpace(a.config.GetString("storage.bucket")),
		S3: storage.S3Options{
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			Client:         gcsClient,
			GoogleAccessID: strings.TrimSpace(a.config.GetString("storage.gcs.signer_access_id")),
			PrivateKey:     a.config.GetBinary("storage.gcs.signer_private_key"),
		},
		MinIO: storage.MinIOOptions{
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")

	opts := messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
				cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
				cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
				return cfg
			}(),
			ConsumerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.MaxInFlight = a.config.GetInt("messaging.nsq.consumer_config.max_in_flight")
				cfg.MaxAttempts = uint16(a.config.GetInt("messaging.nsq.consumer_config.max_attempts"))
				cfg.LookupdPollInterval = a.config.GetSecond("messaging.nsq.consumer_config.lookupd_poll_interval_seconds")
				cfg.DefaultRequeueDelay = a.config.GetSecond("messaging.nsq.consumer_config.default_requeue_delay_seconds")
				cfg.MaxRequeueDelay = a.config.GetSecond("messaging.nsq.consumer_config.max_requeue_delay_seconds")
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
	}
	if strings.TrimSpace(driver) == messaging.DriverGooglePubSub {
		opts.PubSub = messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: a.googleOptions("messaging.pubsub", "https://www.googleapis.com/auth/pubsub"),
		}
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, opts)
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Sessions:   a.sessions,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.storage.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
