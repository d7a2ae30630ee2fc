package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

const keyPrefix = "barbershop:reports:"

// Cache кеш отчётов в Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кеш отчётов с заданным временем жизни записей
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func reportKey(from, to time.Time) string {
	return fmt.Sprintf("%sreport:%d:%d", keyPrefix, from.Unix(), to.Unix())
}

func dashboardKey(day time.Time) string {
	return fmt.Sprintf("%sdashboard:%s", keyPrefix, day.Format(domain.DateFormat))
}

// GetReport возвращает отчёт за период [from, to) или ErrCacheMiss
func (c *Cache) GetReport(ctx context.Context, from, to time.Time) (*domain.Report, error) {
	var report domain.Report
	if err := c.get(ctx, reportKey(from, to), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SetReport сохраняет отчёт
func (c *Cache) SetReport(ctx context.Context, report *domain.Report) error {
	return c.set(ctx, reportKey(report.From, report.To), report)
}

// GetDashboard возвращает сводку за день или ErrCacheMiss
func (c *Cache) GetDashboard(ctx context.Context, day time.Time) (*domain.Dashboard, error) {
	var dashboard domain.Dashboard
	if err := c.get(ctx, dashboardKey(day), &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// SetDashboard сохраняет сводку за день
func (c *Cache) SetDashboard(ctx context.Context, day time.Time, dashboard *domain.Dashboard) error {
	return c.set(ctx, dashboardKey(day), dashboard)
}

// Invalidate удаляет все закешированные отчёты.
// Вызывается после любых изменений записей.
func (c *Cache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - scan: %v", ErrCache, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - del: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", ErrCache, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrEncode, key, err)
	}
	return nil
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrEncode, key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCache, key, err)
	}
	return nil
}
