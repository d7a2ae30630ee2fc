package catalog

import (
	"context"
	"database/sql"
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

func TestRepository_GetByID_WithPromotion(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	validUntil := now.Add(72 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Corte degradê", "", int64(45), "60.00", true, "45.00", validUntil, now, now))

	service, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 45, service.DurationMinutes)
	assert.Equal(t, 60.0, service.Price)
	require.NotNil(t, service.Promotion)
	assert.True(t, service.Promotion.IsActive)
	assert.Equal(t, 45.0, service.Promotion.DiscountedPrice)
	require.NotNil(t, service.Promotion.ValidUntil)
	assert.Equal(t, 45.0, service.EffectivePrice(now))
}

func TestRepository_GetByID_WithoutPromotion(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "Barba", "Toalha quente", int64(30), "35.00", false, nil, nil, now, now))

	service, err := repo.GetByID(context.Background(), 2)

	require.NoError(t, err)
	assert.Nil(t, service.Promotion)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM services").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO services (name,description,duration_minutes,price,promo_active,promo_price,promo_valid_until) VALUES ($1,$2,$3,$4,$5,$6,$7)")).
		WithArgs("Corte", "", 30, 50.0, true, 40.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	service, err := repo.Create(context.Background(), &domain.Service{
		Name:            "Corte",
		DurationMinutes: 30,
		Price:           50,
		Promotion:       &domain.Promotion{IsActive: true, DiscountedPrice: 40},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), service.ID)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE services SET")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &domain.Service{ID: 8, Name: "Corte", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRepository_Delete_InUse(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503"})

	assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrServiceInUse)
}
