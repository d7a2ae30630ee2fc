package reports

import "errors"

var (
	// ErrCacheMiss в кеше нет значения по ключу
	ErrCacheMiss = errors.New("reports.cache: miss")

	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("reports.cache: redis error")

	// ErrEncode ошибка сериализации значения
	ErrEncode = errors.New("reports.cache: encode error")
)
