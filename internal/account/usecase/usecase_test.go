package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/attempt"
	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/encrypt"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/hash"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/storage"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testConfig = `
modules:
  account:
    otp:
      expire: 120
      max_attempts: 3
    password_min_length: 8
    profile_pic_max_bytes: 1024
    profile_pic_url_expire_minutes: 5
`

var errBoom = errors.New("boom")

type fakeRepo struct {
	mu         sync.Mutex
	users      map[int64]entity.User
	volunteers map[int64]entity.Volunteer

	err                   error
	createVolunteerErr    error
	beforeCreateVolunteer func(users map[int64]entity.User)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]entity.User{}, volunteers: map[int64]entity.Volunteer{}}
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) ExistsUserByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := f.GetUserByPhone(ctx, phone)
	if errors.Is(err, goerror.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeRepo) GetVolunteerByUserID(_ context.Context, userID int64) (*entity.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.volunteers[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &v, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, user entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	return f.insertUser(user)
}

func (f *fakeRepo) CreateVolunteer(_ context.Context, v entity.Volunteer, owner *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.beforeCreateVolunteer != nil {
		f.beforeCreateVolunteer(f.users)
	}
	if f.createVolunteerErr != nil {
		return f.createVolunteerErr
	}
	if _, ok := f.volunteers[v.UserID]; ok {
		return goerror.ErrConflict
	}
	if owner != nil {
		if err := f.insertUser(*owner); err != nil {
			return err
		}
	}
	f.volunteers[v.UserID] = v
	return nil
}

func (f *fakeRepo) insertUser(user entity.User) error {
	for _, u := range f.users {
		if u.Phone == user.Phone {
			return goerror.ErrConflict
		}
		if u.Email != "" && strings.EqualFold(u.Email, user.Email) {
			return goerror.ErrConflict
		}
	}
	f.users[user.ID] = user
	return nil
}

type fakeSender struct {
	code       string
	channel    entity.OTPChannel
	identifier string
	calls      int
	err        error
}

func (f *fakeSender) SendOTP(_ context.Context, code string, channel entity.OTPChannel, identifier string) error {
	f.calls++
	f.code, f.channel, f.identifier = code, channel, identifier
	return f.err
}

type fakePublisher struct {
	events []VolunteerRegistrationEvent
	err    error
}

func (f *fakePublisher) PublishVolunteerRegistration(_ context.Context, msg VolunteerRegistrationEvent) error {
	f.events = append(f.events, msg)
	return f.err
}

type recordingStorage struct {
	*storage.Memory
	keys []string
}

func (r *recordingStorage) Put(ctx context.Context, key string, rd io.Reader, opts storage.PutOptions) (storage.Object, error) {
	r.keys = append(r.keys, key)
	return r.Memory.Put(ctx, key, rd, opts)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type fixedOTP string

func (f fixedOTP) Generate() (string, error) { return string(f), nil }

type testDeps struct {
	repo      *fakeRepo
	sender    *fakeSender
	publisher *fakePublisher
	storage   *recordingStorage
	clock     *fakeClock
	encryptor encrypt.Encryptor
	password  hash.Hash
	attempts  *attempt.Memory
}

func newTestUsecase(t *testing.T) (*Usecase, *testDeps) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	enc, err := encrypt.NewAESGCM(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	otpDigest, err := hash.NewHMACSHA256(bytes.Repeat([]byte{9}, hash.MinHMACKeyLen))
	require.NoError(t, err)

	deps := &testDeps{
		repo:      newFakeRepo(),
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
		storage:   &recordingStorage{Memory: storage.NewMemory("http://files.local")},
		clock:     &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
		encryptor: enc,
		password:  hash.NewBcrypt(bcrypt.MinCost, "pepper"),
		attempts:  attempt.NewMemory(),
	}

	uc := New(Dependency{
		RepoDB:        deps.repo,
		RepoMessaging: deps.publisher,
		OTPSender:     deps.sender,
		Storage:       deps.storage,
		Encryptor:     deps.encryptor,
		Validator:     v,
		Config:        cfg,
		Password:      deps.password,
		OTPDigest:     otpDigest,
		OTP:           fixedOTP("123456"),
		UID:           &seqID{n: 1000},
		UUID:          uid.NewUUID(),
		Token:         uid.NewToken(),
		Attempts:      deps.attempts,
		Clock:         deps.clock,
		Instrument:    instrument.NewNoop(),
	})

	return uc, deps
}

func (d *testDeps) addUser(t *testing.T, id int64, phone, password string) entity.User {
	t.Helper()

	hashed, err := d.password.Hash(password)
	require.NoError(t, err)

	u := entity.User{ID: id, Phone: phone, Username: phone, Password: string(hashed), CreatedAt: d.clock.now, UpdatedAt: d.clock.now}
	require.NoError(t, d.repo.CreateUser(context.Background(), u))
	return u
}

func requireGoError(t *testing.T, err error, status int, msg string) *goerror.Error {
	t.Helper()

	var gErr *goerror.Error
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, status, gErr.StatusCode())
	if msg != "" {
		assert.Equal(t, msg, gErr.Msg())
	}
	return gErr
}
