package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gocharity/internal/account/entity"
	"github.com/shandysiswandi/gocharity/internal/pkg/goerror"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("needs docker")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("gocharity"),
		tcpostgres.WithUsername("gocharity"),
		tcpostgres.WithPassword("gocharity"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := NewDB(pool, instrument.NewNoop())
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))

	return db
}

func testUser(id int64, phone string) entity.User {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return entity.User{
		ID:        id,
		Phone:     phone,
		Username:  phone,
		Password:  "hashed",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testVolunteer(id, userID int64) entity.Volunteer {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return entity.Volunteer{
		ID:            id,
		UserID:        userID,
		FirstName:     "Sara",
		LastName:      "Ahmadi",
		Gender:        entity.GenderFemale,
		Birth:         time.Date(1995, 2, 3, 0, 0, 0, 0, time.UTC),
		Phone:         "09120000001",
		City:          "Tehran",
		Education:     entity.EducationBachelor,
		MaritalStatus: entity.MaritalStatusSingle,
		Abilities:     []entity.Ability{entity.AbilityMedical, entity.AbilityIT},
		NC:            []byte{1, 2, 3},
		ProfilePic:    "volunteers/1.png",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestDB_Users(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.GetUserByPhone(ctx, "09120000001")
	require.ErrorIs(t, err, goerror.ErrNotFound)

	sara := testUser(1, "09120000001")
	sara.Email = "Sara@Example.org"
	require.NoError(t, db.CreateUser(ctx, sara))
	require.ErrorIs(t, db.CreateUser(ctx, testUser(2, "09120000001")), goerror.ErrConflict)

	byPhone, err := db.GetUserByPhone(ctx, "09120000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byPhone.ID)

	byID, err := db.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "09120000001", byID.Username)

	byEmail, err := db.GetUserByEmail(ctx, "sara@example.ORG")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEmail.ID)

	sameEmail := testUser(3, "09120000003")
	sameEmail.Email = "sara@example.org"
	require.ErrorIs(t, db.CreateUser(ctx, sameEmail), goerror.ErrConflict)

	// accounts without an email do not collide
	require.NoError(t, db.CreateUser(ctx, testUser(4, "09120000004")))
	require.NoError(t, db.CreateUser(ctx, testUser(5, "09120000005")))

	exists, err := db.ExistsUserByPhone(ctx, "09120000001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.ExistsUserByPhone(ctx, "09129999999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDB_CreateVolunteer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("WithNewOwner", func(t *testing.T) {
		owner := testUser(10, "09120000010")
		require.NoError(t, db.CreateVolunteer(ctx, testVolunteer(100, 10), &owner))

		v, err := db.GetVolunteerByUserID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(100), v.ID)
		assert.Equal(t, entity.GenderFemale, v.Gender)
		assert.Equal(t, []entity.Ability{entity.AbilityMedical, entity.AbilityIT}, v.Abilities)
		assert.Equal(t, []byte{1, 2, 3}, v.NC)
		assert.Equal(t, 1995, v.Birth.Year())
	})

	t.Run("SecondProfileConflicts", func(t *testing.T) {
		err := db.CreateVolunteer(ctx, testVolunteer(101, 10), nil)
		require.ErrorIs(t, err, goerror.ErrConflict)
	})

	t.Run("OwnerRolledBackWithVolunteer", func(t *testing.T) {
		owner := testUser(11, "09120000011")
		err := db.CreateVolunteer(ctx, testVolunteer(100, 11), &owner)
		require.ErrorIs(t, err, goerror.ErrConflict)

		_, err = db.GetUserByID(ctx, 11)
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		err := db.CreateVolunteer(ctx, testVolunteer(102, 999), nil)
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})
}
