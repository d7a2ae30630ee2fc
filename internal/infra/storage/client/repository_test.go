package client

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO clients (name,phone,email,last_visit,preferred_employee_id,notes) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at")).
		WithArgs("João Silva", "+5511987654321", "joao@example.com", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	client, err := repo.Create(context.Background(), &domain.Client{
		Name:  "João Silva",
		Phone: "+5511987654321",
		Email: "joao@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), client.ID)
	assert.Equal(t, now, client.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	lastVisit := now.Add(-48 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, email, last_visit, preferred_employee_id, notes, created_at, updated_at FROM clients WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), "Carlos", "+5511999990000", "", lastVisit, int64(2), nil, now, now))

	client, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Carlos", client.Name)
	require.NotNil(t, client.LastVisit)
	assert.Equal(t, lastVisit, *client.LastVisit)
	require.NotNil(t, client.PreferredEmployeeID)
	assert.Equal(t, int64(2), *client.PreferredEmployeeID)
	assert.Nil(t, client.Notes)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .* FROM clients").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRepository_List_Search(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE (name ILIKE $1 OR phone ILIKE $2 OR email ILIKE $3) ORDER BY name ASC, id ASC")).
		WithArgs("%silva%", "%silva%", "%silva%").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Ana Silva", "+5511900000001", "", nil, nil, nil, now, now).
			AddRow(int64(2), "Bruno Silva", "+5511900000002", "", nil, nil, nil, now, now))

	clients, err := repo.List(context.Background(), "silva")

	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Bruno Silva", clients[1].Name)
}

func TestRepository_List_SearchEscapesWildcards(t *testing.T) {
	repo, mock := newMock(t)
	pattern := `%ana\_%`

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE (name ILIKE $1 OR phone ILIKE $2 OR email ILIKE $3)")).
		WithArgs(pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows(columns))

	clients, err := repo.List(context.Background(), "ana_")

	require.NoError(t, err)
	assert.Empty(t, clients)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	t.Run("in use", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnError(&pq.Error{Code: "23503"})

		assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrClientInUse)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrClientNotFound)
	})

	t.Run("ok", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clients")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
