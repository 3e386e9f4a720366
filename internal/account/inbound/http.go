package inbound

import (
	"context"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/account/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type uc interface {
	IssueOTP(ctx context.Context, sess *session.Session, in usecase.IssueOTPInput) (*usecase.IssueOTPOutput, error)
	VerifyOTP(ctx context.Context, sess *session.Session, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)

	ValidatePhone(ctx context.Context, in usecase.ValidatePhoneInput) error
	Register(ctx context.Context, sess *session.Session, in usecase.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, sess *session.Session, in usecase.LoginInput) (*entity.User, error)
	Logout(ctx context.Context, sess *session.Session) error

	Dashboard(ctx context.Context, sess *session.Session) (*usecase.DashboardOutput, error)
	PrefillVolunteer(ctx context.Context, sess *session.Session, in usecase.VolunteerPrefill) (*usecase.VolunteerPrefill, error)
	RegisterVolunteer(ctx context.Context, sess *session.Session, in usecase.RegisterVolunteerInput) (*usecase.RegisterVolunteerOutput, error)
	ProfilePicMaxBytes() int64
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// OTP
	r.GET("/api/v1/account/otp", end.IssueOTP)
	r.POST("/api/v1/account/otp", end.VerifyOTP)

	// Sign up & sign in
	r.POST("/api/v1/account/phone/validate", end.ValidatePhone)
	r.POST("/api/v1/account/register", end.Register)
	r.POST("/api/v1/account/login", end.Login)
	r.POST("/api/v1/account/logout", end.Logout)

	r.GET("/api/v1/account/dashboard", end.Dashboard, router.RequireLogin)

	// Volunteer
	r.GET("/api/v1/account/volunteer", end.PrefillVolunteer)
	r.POST("/api/v1/account/volunteer", end.RegisterVolunteer)
}
