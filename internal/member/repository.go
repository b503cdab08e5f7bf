package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"esportfed/internal/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrNoPendingMember = errors.New("no member in expected status")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var memberColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "address", "city",
	"member_category", "status", "plan_id", "membership_start", "membership_end",
	"age_category", "experience_level", "games", "motivation", "created_at", "updated_at",
}

var returningMember = "RETURNING " + strings.Join(memberColumns, ", ")

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	query := `SELECT ` + strings.Join(memberColumns, ", ") + `
		FROM members
		WHERE lower(email) = $1`

	var m Member
	if err := r.db.GetContext(ctx, &m, query, NormalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// PrivilegedInsert creates the member row on behalf of an anonymous applicant.
func (r *PostgresRepository) PrivilegedInsert(ctx context.Context, m NewMember) (uuid.UUID, error) {
	query := `
		INSERT INTO members (
			first_name, last_name, email, phone, address, city,
			member_category, status, plan_id, membership_start, membership_end,
			age_category, experience_level, games, motivation
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		m.FirstName, m.LastName, NormalizeEmail(m.Email), m.Phone, m.Address, m.City,
		string(m.Category), string(m.Status), m.PlanID, m.StartDate, m.EndDate,
		m.AgeCategory, m.ExperienceLevel, pq.Array(m.Games), m.Motivation,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("insert member: %w", err)
	}

	return id, nil
}

// UpdateStatus moves the member with email from one status to another.
// Rows in any other status are left untouched.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, email string, from, to Status) error {
	query := `
		UPDATE members
		SET status = $1, updated_at = NOW()
		WHERE lower(email) = $2 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, query, string(to), NormalizeEmail(email), string(from))
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoPendingMember
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Member, error) {
	limit := f.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	q := squirrel.Select(memberColumns...).
		From("members").
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(f.Offset)

	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(f.Status)})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"member_category": string(f.Category)})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(squirrel.Or{
			squirrel.Like{"lower(email)": like},
			squirrel.Like{"lower(first_name)": like},
			squirrel.Like{"lower(last_name)": like},
			squirrel.Like{"lower(city)": like},
		})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build member list query: %w", err)
	}

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := `SELECT ` + strings.Join(memberColumns, ", ") + ` FROM members WHERE id = $1`

	var m Member
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// SetStatus is the operator override: any status can be set on any member.
func (r *PostgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Member, error) {
	query, args, err := squirrel.Update("members").
		PlaceholderFormat(squirrel.Dollar).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningMember).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status update: %w", err)
	}

	var m Member
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ExpireEnded marks active memberships whose end date is before today as expired.
func (r *PostgresRepository) ExpireEnded(ctx context.Context, today time.Time) ([]Member, error) {
	query, args, err := squirrel.Update("members").
		PlaceholderFormat(squirrel.Dollar).
		Set("status", string(StatusExpired)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(StatusActive)}).
		Where(squirrel.Lt{"membership_end": today}).
		Suffix(returningMember).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build expiry update: %w", err)
	}

	expired := []Member{}
	if err := r.db.SelectContext(ctx, &expired, query, args...); err != nil {
		return nil, err
	}
	return expired, nil
}
