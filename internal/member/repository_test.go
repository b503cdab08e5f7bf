package member

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemberMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func memberRow(id uuid.UUID, email string, category Category, status Status) []driver.Value {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id.String(), "Ana", "Silva", email, "0612345678", "12 rue des Lilas", "Lyon",
		string(category), string(status), "club", start, start.Add(MembershipLength),
		nil, "advanced", "{valorant,rocket-league}", "", start, start,
	}
}

func TestFindByEmail(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(memberRow(id, "ana@x.com", CategoryClub, StatusPending)...))

	m, err := repo.FindByEmail(context.Background(), "  Ana@X.com ")
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, CategoryClub, m.Category)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, []string{"valorant", "rocket-league"}, []string(m.Games))
	assert.Nil(t, m.AgeCategory)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("none@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "none@x.com")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func newMemberFixture() NewMember {
	start, end := MembershipPeriod(time.Now())
	return NewMember{
		FirstName: "Ana", LastName: "Silva", Email: "Ana@X.com", Phone: "0612345678",
		Address: "12 rue des Lilas", City: "Lyon", Category: CategoryPlayer, Status: StatusActive,
		PlanID: "joueur", StartDate: start, EndDate: end, ExperienceLevel: "beginner",
		Games: []string{"valorant"}, Motivation: "I want to compete",
	}
}

func TestPrivilegedInsert(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs("Ana", "Silva", "ana@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"player", "active", "joueur", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "beginner", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	got, err := repo.PrivilegedInsert(context.Background(), newMemberFixture())
	require.NoError(t, err)
	assert.Equal(t, id, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrivilegedInsert_UniqueViolation(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.PrivilegedInsert(context.Background(), newMemberFixture())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestPrivilegedInsert_OtherError(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnError(&pq.Error{Code: "23514"})

	_, err := repo.PrivilegedInsert(context.Background(), newMemberFixture())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateStatus(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs("active", "club@x.com", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "Club@X.com", StatusPending, StatusActive))
}

func TestUpdateStatus_OnlyTouchesPending(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta("WHERE lower(email) = $2 AND status = $3")).
		WithArgs("active", "suspended@x.com", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "suspended@x.com", StatusPending, StatusActive)
	assert.ErrorIs(t, err, ErrNoPendingMember)
}

func TestList_Filters(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE status = $1 AND member_category = $2 AND (lower(email) LIKE $3")).
		WithArgs("pending", "club", "%lyon%", "%lyon%", "%lyon%", "%lyon%").
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(memberRow(id, "club@x.com", CategoryClub, StatusPending)...))

	members, err := repo.List(context.Background(), Filter{
		Status:   StatusPending,
		Category: CategoryClub,
		Search:   " Lyon ",
		Limit:    1000,
	})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, id, members[0].ID)
}

func TestSetStatus(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE members SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
		WithArgs("suspended", id.String()).
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(memberRow(id, "ana@x.com", CategoryPlayer, StatusSuspended)...))

	m, err := repo.SetStatus(context.Background(), id, StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, m.Status)
}

func TestExpireEnded(t *testing.T) {
	repo, mock, closeDB := setupMemberMock(t)
	defer closeDB()

	today := time.Date(2027, 1, 11, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $2 AND membership_end < $3")).
		WithArgs("expired", "active", today).
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(memberRow(uuid.New(), "old@x.com", CategoryPlayer, StatusExpired)...))

	expired, err := repo.ExpireEnded(context.Background(), today)
	require.NoError(t, err)
	assert.Len(t, expired, 1)
}

func TestMembershipPeriod(t *testing.T) {
	now := time.Date(2026, 3, 5, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))

	start, end := MembershipPeriod(now)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 365*24*time.Hour, end.Sub(start))
}
