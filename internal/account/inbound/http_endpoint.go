package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/gocharity/internal/account/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
)

// multipartOverhead is the room left for the text fields of the volunteer form.
const multipartOverhead = 1 << 20

// HTTPEndpoint exposes HTTP handlers for accounts, OTP and volunteers.
type HTTPEndpoint struct {
	uc uc
}

// IssueOTP sends a one-time code to a phone or email address.
// @Summary Issue OTP
// @Description Generates a code, keeps its digest in the session and delivers it over the requested channel.
// @Tags Account, OTP
// @Produce json
// @Param otp_type query string true "sms or email"
// @Param otp_identifier query string true "Phone number or email address"
// @Success 200 {object} router.successResponse{data=IssueOTPResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid otp request"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp [get]
func (h *HTTPEndpoint) IssueOTP(r *router.Request) (any, error) {
	resp, err := h.uc.IssueOTP(r.Context(), r.Session(), usecase.IssueOTPInput{
		Type:       r.GetQuery("otp_type"),
		Identifier: r.GetQuery("otp_identifier"),
	})
	if err != nil {
		return nil, err
	}

	return IssueOTPResponse{ExpiresIn: resp.ExpiresIn, sentTo: resp.MaskedIdentifier}, nil
}

// VerifyOTP checks a code for login or plain verification.
// @Summary Verify OTP
// @Tags Account, OTP
// @Accept json
// @Produce json
// @Param otp_request query string true "login or verify_otp"
// @Param request body VerifyOTPRequest true "OTP payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Verified"
// @Failure 400 {object} router.errorResponse "Invalid otp"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), r.Session(), usecase.VerifyOTPInput{
		Request: r.GetQuery("otp_request"),
		Code:    req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{LoggedIn: resp.LoggedIn}, nil
}

// ValidatePhone reports whether a phone number can be used to sign up.
// @Summary Validate phone
// @Tags Account
// @Accept json
// @Produce json
// @Param request body ValidatePhoneRequest true "Phone payload"
// @Success 200 {object} router.successResponse{data=ValidatePhoneResponse} "Phone is available"
// @Failure 400 {object} router.errorResponse "Invalid phone number"
// @Failure 409 {object} router.errorResponse "Phone number is already used"
// @Router /api/v1/account/phone/validate [post]
func (h *HTTPEndpoint) ValidatePhone(r *router.Request) (any, error) {
	var req ValidatePhoneRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ValidatePhone(r.Context(), usecase.ValidatePhoneInput{Phone: req.Phone}); err != nil {
		return nil, err
	}

	return ValidatePhoneResponse{UsernameValid: true}, nil
}

// Register creates an account from a phone number and password.
// @Summary Register
// @Tags Account
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Account created"
// @Failure 409 {object} router.errorResponse "Phone number is already used"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/account/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	user, err := h.uc.Register(r.Context(), r.Session(), usecase.RegisterInput{
		Phone:     req.Phone,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserResponse: newUserResponse(*user)}, nil
}

// Login authenticates with phone and password.
// @Summary Login
// @Tags Account
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Logged in"
// @Failure 400 {object} router.errorResponse "Already logged in"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/account/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	user, err := h.uc.Login(r.Context(), r.Session(), usecase.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{UserResponse: newUserResponse(*user)}, nil
}

func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context(), r.Session()); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// Dashboard returns the logged-in user and their volunteer profile.
func (h *HTTPEndpoint) Dashboard(r *router.Request) (any, error) {
	resp, err := h.uc.Dashboard(r.Context(), r.Session())
	if err != nil {
		return nil, err
	}

	out := DashboardResponse{User: newUserResponse(resp.User), Messages: resp.Flashes}
	if resp.Volunteer != nil {
		out.Volunteer = newVolunteerResponse(resp.Volunteer.Volunteer)
		out.Volunteer.NationalCode = resp.Volunteer.NationalCode
		out.Volunteer.ProfilePicURL = resp.Volunteer.ProfilePicURL
	}

	return out, nil
}

func (h *HTTPEndpoint) PrefillVolunteer(r *router.Request) (any, error) {
	resp, err := h.uc.PrefillVolunteer(r.Context(), r.Session(), usecase.VolunteerPrefill{
		FirstName: r.GetQuery("first_name"),
		LastName:  r.GetQuery("last_name"),
		Phone:     r.GetQuery("phone"),
		Email:     r.GetQuery("email"),
	})
	if err != nil {
		return nil, err
	}

	return VolunteerPrefillResponse{
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Phone:     resp.Phone,
		Email:     resp.Email,
	}, nil
}

// RegisterVolunteer stores a volunteer profile, creating an account for
// anonymous callers.
// @Summary Register volunteer
// @Tags Account, Volunteer
// @Accept multipart/form-data
// @Produce json
// @Param profile_pic formData file true "Profile picture (jpeg, png or webp)"
// @Success 201 {object} router.successResponse{data=RegisterVolunteerResponse} "Volunteer registered"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Conflict"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/volunteer [post]
func (h *HTTPEndpoint) RegisterVolunteer(r *router.Request) (any, error) {
	ctx := r.Context()

	if err := r.ParseMultipart(h.uc.ProfilePicMaxBytes() + multipartOverhead); err != nil {
		return nil, err
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.WarnContext(ctx, "failed to remove multipart files", "error", err)
		}
	}()

	in := usecase.RegisterVolunteerInput{
		FirstName:      r.FormString("first_name"),
		LastName:       r.FormString("last_name"),
		Gender:         r.FormString("gender"),
		Birth:          r.FormString("birth"),
		Email:          r.FormString("email"),
		Phone:          r.FormString("phone"),
		City:           r.FormString("city"),
		Education:      r.FormString("education"),
		Major:          r.FormString("major"),
		MaritalStatus:  r.FormString("marital_status"),
		ExperienceInfo: r.FormString("experience_info"),
		SpecialistInfo: r.FormString("specialist_info"),
		Abilities:      r.FormStrings("abilities"),
		NC:             r.FormString("nc"),
		Password1:      r.FormValue("password1"),
		Password2:      r.FormValue("password2"),
	}

	header, err := r.FormFile("profile_pic")
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	if header != nil {
		file, err := header.Open()
		if err != nil {
			slog.ErrorContext(ctx, "failed to open uploaded file", "error", err)
			return nil, goerror.NewServer(err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close file", "error", err)
			}
		}()

		in.ProfilePic = file
		in.ProfilePicSize = header.Size
	}

	resp, err := h.uc.RegisterVolunteer(ctx, r.Session(), in)
	if err != nil {
		return nil, err
	}

	return RegisterVolunteerResponse{
		VolunteerID: resp.Volunteer.ID,
		UserID:      resp.Volunteer.UserID,
		NewAccount:  resp.NewAccount,
	}, nil
}
