package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	ctx := context.Background()
	uc, deps := newTestUsecase(t)
	deps.addUser(t, 1, "09120000001", "Secret123!")

	require.NoError(t, uc.ValidatePhone(ctx, ValidatePhoneInput{Phone: " 09123456789 "}))

	err := uc.ValidatePhone(ctx, ValidatePhoneInput{Phone: "9123456789"})
	requireGoError(t, err, http.StatusBadRequest, "invalid phone number")

	err = uc.ValidatePhone(ctx, ValidatePhoneInput{Phone: "09120000001"})
	requireGoError(t, err, http.StatusConflict, "phone number is already used")

	deps.repo.err = errBoom
	err = uc.ValidatePhone(ctx, ValidatePhoneInput{Phone: "09123456789"})
	requireGoError(t, err, http.StatusInternalServerError, "")
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("FieldErrors", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.Register(ctx, session.New(), RegisterInput{Phone: "123", Password1: "Secret123!", Password2: "Other123!"})
		gErr := requireGoError(t, err, http.StatusUnprocessableEntity, "")
		assert.Equal(t, map[string]string{
			"phone":     "invalid phone number",
			"password2": "passwords do not match",
		}, gErr.Fields())
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.Register(ctx, session.New(), RegisterInput{Phone: "09123456789", Password1: "abc", Password2: "abc"})
		gErr := requireGoError(t, err, http.StatusUnprocessableEntity, "")
		assert.Equal(t, "password must be at least 8 characters", gErr.Fields()["password1"])
	})

	t.Run("PasswordTooLong", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		long := strings.Repeat("a", 73)

		_, err := uc.Register(ctx, session.New(), RegisterInput{Phone: "09123456789", Password1: long, Password2: long})
		gErr := requireGoError(t, err, http.StatusUnprocessableEntity, "")
		assert.Contains(t, gErr.Fields(), "password1")
	})

	t.Run("PhoneUsed", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		deps.addUser(t, 1, "09123456789", "Secret123!")

		_, err := uc.Register(ctx, session.New(), RegisterInput{Phone: "09123456789", Password1: "Secret123!", Password2: "Secret123!"})
		requireGoError(t, err, http.StatusConflict, "phone number is already used")
	})

	t.Run("Success", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		sess := session.New()

		user, err := uc.Register(ctx, sess, RegisterInput{Phone: "09123456789", Password1: "Secret123!", Password2: "Secret123!"})
		require.NoError(t, err)
		assert.Equal(t, "09123456789", user.Username)
		assert.False(t, sess.IsAuthenticated())

		stored, err := deps.repo.GetUserByPhone(ctx, "09123456789")
		require.NoError(t, err)
		assert.True(t, deps.password.Verify(stored.Password, "Secret123!"))

		flashes := sess.PopFlashes()
		require.Len(t, flashes, 1)
		assert.Equal(t, "account created successfully", flashes[0].Message)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		deps.addUser(t, 5, "09123456789", "Secret123!")
		sess := session.New()

		user, err := uc.Login(ctx, sess, LoginInput{Phone: "09123456789", Password: "Secret123!"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.ID)
		assert.Equal(t, int64(5), sess.UserID())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		deps.addUser(t, 5, "09123456789", "Secret123!")
		sess := session.New()

		_, err := uc.Login(ctx, sess, LoginInput{Phone: "09123456789", Password: "nope"})
		requireGoError(t, err, http.StatusUnauthorized, "invalid credentials")
		assert.False(t, sess.IsAuthenticated())
	})

	t.Run("UnknownPhone", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.Login(ctx, session.New(), LoginInput{Phone: "09123456789", Password: "Secret123!"})
		requireGoError(t, err, http.StatusUnauthorized, "invalid credentials")
	})

	t.Run("UnusablePassword", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		sess := session.New()
		issue(t, uc, sess, "sms", "09123456789")
		_, err := uc.VerifyOTP(ctx, sess, VerifyOTPInput{Request: "login", Code: "123456"})
		require.NoError(t, err)

		user, err := deps.repo.GetUserByPhone(ctx, "09123456789")
		require.NoError(t, err)

		_, err = uc.Login(ctx, session.New(), LoginInput{Phone: "09123456789", Password: user.Password})
		requireGoError(t, err, http.StatusUnauthorized, "invalid credentials")
	})

	t.Run("MissingFields", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.Login(ctx, session.New(), LoginInput{Phone: "09123456789"})
		requireGoError(t, err, http.StatusUnprocessableEntity, "")
	})

	t.Run("AlreadyLoggedIn", func(t *testing.T) {
		uc, deps := newTestUsecase(t)
		deps.addUser(t, 5, "09123456789", "Secret123!")
		sess := session.New()
		sess.Login(5)

		_, err := uc.Login(ctx, sess, LoginInput{Phone: "09123456789", Password: "Secret123!"})
		requireGoError(t, err, http.StatusBadRequest, "user is already logged in")
	})
}

func TestLogout(t *testing.T) {
	uc, deps := newTestUsecase(t)
	deps.addUser(t, 5, "09123456789", "Secret123!")
	sess := session.New()
	sess.Login(5)

	require.NoError(t, uc.Logout(context.Background(), sess))
	assert.False(t, sess.IsAuthenticated())
}
