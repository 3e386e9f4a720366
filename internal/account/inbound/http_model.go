package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
)

type IssueOTPResponse struct {
	ExpiresIn int64 `json:"expires_in"`

	sentTo string
}

func (r IssueOTPResponse) Message() string {
	return "code has been sent to " + r.sentTo
}

type VerifyOTPRequest struct {
	OTPCode string `json:"otp_code"`
}

type VerifyOTPResponse struct {
	LoggedIn bool `json:"logged_in"`
}

func (r VerifyOTPResponse) Message() string {
	if r.LoggedIn {
		return "you have been logged in successfully"
	}
	return "otp verified successfully"
}

type ValidatePhoneRequest struct {
	Phone string `json:"phone"`
}

type ValidatePhoneResponse struct {
	UsernameValid bool `json:"username_valid"`
}

type RegisterRequest struct {
	Phone     string `json:"phone"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type RegisterResponse struct {
	UserResponse
}

func (RegisterResponse) Message() string {
	return "account created successfully"
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserResponse
}

func (LoginResponse) Message() string {
	return "you have been logged in successfully"
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "you have been logged out"
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Phone     string `json:"phone"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type DashboardResponse struct {
	User      UserResponse       `json:"user"`
	Volunteer *VolunteerResponse `json:"volunteer"`
	Messages  []session.Flash    `json:"messages,omitempty"`
}

type VolunteerResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Gender         string    `json:"gender"`
	Birth          string    `json:"birth"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	City           string    `json:"city"`
	Education      string    `json:"education"`
	Major          string    `json:"major"`
	MaritalStatus  string    `json:"marital_status"`
	ExperienceInfo string    `json:"experience_info"`
	SpecialistInfo string    `json:"specialist_info"`
	Abilities      []string  `json:"abilities"`
	NationalCode   string    `json:"nc"`
	ProfilePicURL  string    `json:"profile_pic_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func newVolunteerResponse(v entity.Volunteer) *VolunteerResponse {
	abilities := make([]string, 0, len(v.Abilities))
	for _, a := range v.Abilities {
		abilities = append(abilities, string(a))
	}

	return &VolunteerResponse{
		ID:             v.ID,
		FirstName:      v.FirstName,
		LastName:       v.LastName,
		Gender:         string(v.Gender),
		Birth:          v.Birth.Format(time.DateOnly),
		Email:          v.Email,
		Phone:          v.Phone,
		City:           v.City,
		Education:      string(v.Education),
		Major:          v.Major,
		MaritalStatus:  string(v.MaritalStatus),
		ExperienceInfo: v.ExperienceInfo,
		SpecialistInfo: v.SpecialistInfo,
		Abilities:      abilities,
		CreatedAt:      v.CreatedAt,
	}
}

type VolunteerPrefillResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type RegisterVolunteerResponse struct {
	VolunteerID int64 `json:"volunteer_id"`
	UserID      int64 `json:"user_id"`
	NewAccount  bool  `json:"new_account"`
}

func (RegisterVolunteerResponse) Message() string {
	return "volunteer registration completed"
}

func (RegisterVolunteerResponse) StatusCode() int {
	return http.StatusCreated
}
