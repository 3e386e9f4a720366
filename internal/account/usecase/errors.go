package usecase

import "github.com/shandysiswandi/gocharity/internal/pkg/goerror"

var (
	errInvalidOTP         = goerror.NewBusiness("invalid otp", goerror.CodeBadRequest)
	errInvalidCredentials = goerror.NewBusiness("invalid credentials", goerror.CodeUnauthorized)
	errPhoneUsed          = goerror.NewBusiness("phone number is already used", goerror.CodeConflict)
	errEmailUsed          = goerror.NewBusiness("email is already used", goerror.CodeConflict)
	errVolunteerExists    = goerror.NewBusiness("volunteer profile already exists", goerror.CodeConflict)
)
