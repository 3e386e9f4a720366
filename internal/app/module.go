package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocharity/internal/account"
	"github.com/shandysiswandi/gocharity/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(a.ctx, account.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Messaging:  a.messaging,
			Storage:    a.storage,
			SMS:        a.sms,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Token:      a.token,
			Attempts:   a.attempts,
			Password:   a.password,
			OTPDigest:  a.otpDigest,
			Encryptor:  a.encryptor,
			OTP:        a.otp,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(a.ctx, notification.Dependency{
			Router:      a.router,
			Messaging:   a.messaging,
			Mail:        a.mail,
			Idempotency: a.idemp,
			Goroutine:   a.goroutine,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
