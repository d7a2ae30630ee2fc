package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCache_Report(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	_, err := cache.GetReport(ctx, from, to)
	assert.ErrorIs(t, err, ErrCacheMiss)

	report := &domain.Report{
		From:              from,
		To:                to,
		TotalAppointments: 4,
		CompletedCount:    3,
		CompletionRate:    75,
		TotalRevenue:      150,
		ServicePerformance: []domain.ServicePerformance{
			{ServiceID: 1, ServiceName: "Corte", Count: 3, Revenue: 150},
		},
	}
	require.NoError(t, cache.SetReport(ctx, report))

	got, err := cache.GetReport(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, report.TotalRevenue, got.TotalRevenue)
	assert.Equal(t, report.ServicePerformance, got.ServicePerformance)
	assert.True(t, report.From.Equal(got.From))

	mr.FastForward(2 * time.Minute)
	_, err = cache.GetReport(ctx, from, to)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Invalidate(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.SetDashboard(ctx, day, &domain.Dashboard{TodayAppointments: 5}))
	require.NoError(t, cache.SetReport(ctx, &domain.Report{From: day, To: day.AddDate(0, 0, 1)}))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.GetDashboard(ctx, day)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.True(t, mr.Exists("unrelated"))
}

func TestCache_RedisDown(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	_, err := cache.GetDashboard(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrCache)
}
