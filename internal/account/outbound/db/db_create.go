package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gocharity/internal/account/entity"
)

const insertUser = `INSERT INTO account_users
	(id, phone, username, email, first_name, last_name, password, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertVolunteer = `INSERT INTO account_volunteers
	(id, user_id, first_name, last_name, gender, birth, email, phone, city, education, major,
	marital_status, experience_info, specialist_info, abilities, nc, profile_pic, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

func (s *DB) CreateUser(ctx context.Context, user entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, insertUser, userArgs(user)...)
	err = s.mapError(err)
	return err
}

// CreateVolunteer stores v. When owner is not nil the user row is inserted
// first in the same transaction.
func (s *DB) CreateVolunteer(ctx context.Context, v entity.Volunteer, owner *entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateVolunteer")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if owner != nil {
		if _, err = tx.Exec(ctx, insertUser, userArgs(*owner)...); err != nil {
			err = s.mapError(err)
			return err
		}
	}

	abilities := lo.Map(v.Abilities, func(a entity.Ability, _ int) string { return string(a) })
	if _, err = tx.Exec(ctx, insertVolunteer,
		v.ID,
		v.UserID,
		v.FirstName,
		v.LastName,
		string(v.Gender),
		v.Birth,
		v.Email,
		v.Phone,
		v.City,
		string(v.Education),
		v.Major,
		string(v.MaritalStatus),
		v.ExperienceInfo,
		v.SpecialistInfo,
		abilities,
		v.NC,
		v.ProfilePic,
		v.CreatedAt,
		v.UpdatedAt,
	); err != nil {
		err = s.mapError(err)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

func userArgs(u entity.User) []any {
	return []any{u.ID, u.Phone, u.Username, u.Email, u.FirstName, u.LastName, u.Password, u.CreatedAt, u.UpdatedAt}
}
