package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gocharity/internal/account/entity"
)

const userColumns = `id, phone, username, email, first_name, last_name, password, created_at, updated_at`

const volunteerColumns = `id, user_id, first_name, last_name, gender, birth, email, phone, city,
	education, major, marital_status, experience_info, specialist_info, abilities, nc,
	profile_pic, created_at, updated_at`

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM account_users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserByPhone(ctx context.Context, phone string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM account_users WHERE phone = $1`, phone)
	user, err := scanUser(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

// GetUserByEmail matches case-insensitively; an address belongs to at most one account.
func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM account_users
		WHERE email <> '' AND lower(email) = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) ExistsUserByPhone(ctx context.Context, phone string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ExistsUserByPhone")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM account_users WHERE phone = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

func (s *DB) GetVolunteerByUserID(ctx context.Context, userID int64) (_ *entity.Volunteer, err error) {
	ctx, span := s.startSpan(ctx, "GetVolunteerByUserID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+volunteerColumns+` FROM account_volunteers WHERE user_id = $1`, userID)
	v, err := scanVolunteer(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return v, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID,
		&u.Phone,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanVolunteer(row pgx.Row) (*entity.Volunteer, error) {
	var (
		v         entity.Volunteer
		gender    string
		education string
		marital   string
		abilities []string
		birth     time.Time
	)
	if err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.FirstName,
		&v.LastName,
		&gender,
		&birth,
		&v.Email,
		&v.Phone,
		&v.City,
		&education,
		&v.Major,
		&marital,
		&v.ExperienceInfo,
		&v.SpecialistInfo,
		&abilities,
		&v.NC,
		&v.ProfilePic,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}

	v.Gender = entity.Gender(gender)
	v.Education = entity.Education(education)
	v.MaritalStatus = entity.MaritalStatus(marital)
	v.Birth = birth
	v.Abilities = make([]entity.Ability, 0, len(abilities))
	for _, a := range abilities {
		v.Abilities = append(v.Abilities, entity.Ability(a))
	}

	return &v, nil
}
