package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/session"
	"github.com/shandysiswandi/gocharity/internal/pkg/storage"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
)

//nolint:gochecknoglobals // global for fast reuse
var profilePicContentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var errProfilePicTooLarge = errors.New("profile picture exceeds max size")

// sniffLen is how much of the upload is read to detect its type.
const sniffLen = 3072

type RegisterVolunteerInput struct {
	FirstName      string   `validate:"required,max=150,personname"`
	LastName       string   `validate:"required,max=150,personname"`
	Gender         string   `validate:"required,oneof=male female"`
	Birth          string   `validate:"required,datetime=2006-01-02"`
	Email          string   `validate:"omitempty,email,max=254"`
	Phone          string   `validate:"required,phone"`
	City           string   `validate:"required,max=100"`
	Education      string   `validate:"required,oneof=under_diploma diploma associate bachelor master doctorate"`
	Major          string   `validate:"max=100"`
	MaritalStatus  string   `validate:"required,oneof=single married"`
	ExperienceInfo string   `validate:"max=2000"`
	SpecialistInfo string   `validate:"max=2000"`
	Abilities      []string `validate:"required,min=1,dive,oneof=medical nursing psychology teaching logistics driving cooking construction it fundraising"`
	NC             string   `validate:"required,nationalcode"`

	// Only used when the caller is anonymous.
	Password1 string `validate:"-"`
	Password2 string `validate:"-"`

	ProfilePic     io.Reader `validate:"required"`
	ProfilePicSize int64     `validate:"-"` // <= 0 when unknown
}

type RegisterVolunteerOutput struct {
	Volunteer  entity.Volunteer
	NewAccount bool
}

func (s *Usecase) RegisterVolunteer(ctx context.Context, sess *session.Session, in RegisterVolunteerInput) (*RegisterVolunteerOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterVolunteer")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}

	fields, err := s.volunteerFieldErrors(in, user == nil)
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if len(fields) > 0 {
		return nil, goerror.NewInvalidInput(nil, fields...)
	}

	birth, err := time.Parse(time.DateOnly, in.Birth)
	if err != nil || !birth.Before(s.clock.Now()) {
		return nil, goerror.NewInvalidInput(nil, "birth", "birth must be a past date")
	}

	var owner *entity.User
	if user == nil {
		owner, err = s.newVolunteerOwner(ctx, sess, in)
		if err != nil {
			return nil, err
		}
		user = owner
	} else {
		_, err := s.repoDB.GetVolunteerByUserID(ctx, user.ID)
		if err == nil {
			return nil, errVolunteerExists
		}
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get volunteer", "user_id", user.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	sealed, err := s.encryptor.Seal([]byte(in.NC), ncAAD(user.ID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to seal national code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	picKey, err := s.storeProfilePic(ctx, user.ID, in.ProfilePic, in.ProfilePicSize)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	volunteer := entity.Volunteer{
		ID:             s.uid.Generate(),
		UserID:         user.ID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Gender:         entity.Gender(in.Gender),
		Birth:          birth,
		Email:          in.Email,
		Phone:          in.Phone,
		City:           strings.TrimSpace(in.City),
		Education:      entity.Education(in.Education),
		Major:          strings.TrimSpace(in.Major),
		MaritalStatus:  entity.MaritalStatus(in.MaritalStatus),
		ExperienceInfo: strings.TrimSpace(in.ExperienceInfo),
		SpecialistInfo: strings.TrimSpace(in.SpecialistInfo),
		Abilities:      lo.Map(lo.Uniq(in.Abilities), func(a string, _ int) entity.Ability { return entity.Ability(a) }),
		NC:             sealed,
		ProfilePic:     picKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repoDB.CreateVolunteer(ctx, volunteer, owner); err != nil {
		if dErr := s.storage.Delete(ctx, picKey); dErr != nil {
			slog.WarnContext(ctx, "failed to delete orphan profile picture", "key", picKey, "error", dErr)
		}

		if errors.Is(err, goerror.ErrConflict) {
			if owner != nil {
				return nil, s.ownerConflict(ctx, owner)
			}
			return nil, errVolunteerExists
		}

		slog.ErrorContext(ctx, "failed to repo create volunteer", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if owner != nil {
		sess.Login(owner.ID)
	}
	sess.AddFlash("success", "volunteer registration completed")

	if err := s.repoMessaging.PublishVolunteerRegistration(ctx, VolunteerRegistrationEvent{
		VolunteerID: volunteer.ID,
		UserID:      user.ID,
		FirstName:   volunteer.FirstName,
		LastName:    volunteer.LastName,
		Email:       volunteer.Email,
		Phone:       volunteer.Phone,
		NewAccount:  owner != nil,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish volunteer registration", "volunteer_id", volunteer.ID, "error", err)
	}

	return &RegisterVolunteerOutput{Volunteer: volunteer, NewAccount: owner != nil}, nil
}

// volunteerFieldErrors merges struct validation with the password rules that
// only apply to anonymous callers. A non-nil error is not a field error.
func (s *Usecase) volunteerFieldErrors(in RegisterVolunteerInput, anonymous bool) ([]string, error) {
	var fields []string

	if err := s.validator.Validate(in); err != nil {
		var vErr validator.V10ValidationError
		if !errors.As(err, &vErr) {
			return nil, err
		}
		for k, v := range vErr.Values() {
			fields = append(fields, k, v)
		}
	}

	if anonymous {
		fields = append(fields, s.checkPasswords(in.Password1, in.Password2)...)
	}

	return fields, nil
}

// newVolunteerOwner prepares the account created for an anonymous volunteer.
// The form email is copied onto the account only when this session proved
// control of it with a verify_otp code, since email OTP login resolves
// accounts by that address.
func (s *Usecase) newVolunteerOwner(ctx context.Context, sess *session.Session, in RegisterVolunteerInput) (*entity.User, error) {
	exists, err := s.repoDB.ExistsUserByPhone(ctx, in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		return nil, errPhoneUsed
	}

	var email string
	if in.Email != "" && in.Email == sess.VerifiedIdentifier() {
		_, err := s.repoDB.GetUserByEmail(ctx, in.Email)
		if err == nil {
			return nil, errEmailUsed
		}
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
			return nil, goerror.NewServer(err)
		}
		email = in.Email
	}

	hashed, err := s.password.Hash(in.Password1)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	return &entity.User{
		ID:        s.uid.Generate(),
		Phone:     in.Phone,
		Username:  strings.TrimSpace(in.FirstName),
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ownerConflict tells which unique column a concurrent registration took.
func (s *Usecase) ownerConflict(ctx context.Context, owner *entity.User) error {
	if owner.Email == "" {
		return errPhoneUsed
	}
	if _, err := s.repoDB.GetUserByEmail(ctx, owner.Email); err == nil {
		return errEmailUsed
	}
	return errPhoneUsed
}

// storeProfilePic sniffs the image type, enforces the size limit and uploads
// the picture. It returns the object key.
func (s *Usecase) storeProfilePic(ctx context.Context, userID int64, r io.Reader, size int64) (string, error) {
	maxSize := s.ProfilePicMaxBytes()
	if size > maxSize {
		return "", goerror.NewInvalidInput(nil, "profile_pic", fmt.Sprintf("profile picture must be at most %d bytes", maxSize))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		slog.ErrorContext(ctx, "failed to read profile picture", "user_id", userID, "error", err)
		return "", goerror.NewServer(err)
	}
	head = head[:n]
	if n == 0 {
		return "", goerror.NewInvalidInput(nil, "profile_pic", "profile picture is empty")
	}

	contentType := mimetype.Detect(head).String()
	ext, ok := profilePicContentTypeExt[contentType]
	if !ok {
		return "", goerror.NewInvalidInput(nil, "profile_pic", "profile picture must be a jpeg, png or webp image")
	}

	key := fmt.Sprintf("volunteers/%d/%s%s", userID, s.uuid.Generate(), ext)
	if size <= 0 {
		size = -1
	}

	_, err = s.storage.Put(ctx, key, &maxBytesReader{r: io.MultiReader(bytes.NewReader(head), r), max: maxSize}, storage.PutOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"user_id": strconv.FormatInt(userID, 10)},
	})
	if errors.Is(err, errProfilePicTooLarge) {
		return "", goerror.NewInvalidInput(nil, "profile_pic", fmt.Sprintf("profile picture must be at most %d bytes", maxSize))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload profile picture", "user_id", userID, "error", err)
		return "", goerror.NewServer(err)
	}

	return key, nil
}

// maxBytesReader fails with errProfilePicTooLarge once more than max bytes
// have been read.
type maxBytesReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.read > m.max {
		return 0, errProfilePicTooLarge
	}

	// Allow one byte past max so an oversized stream is detected.
	if remaining := m.max - m.read + 1; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := m.r.Read(p)
	m.read += int64(n)
	if m.read > m.max {
		return n, errProfilePicTooLarge
	}
	return n, err
}
