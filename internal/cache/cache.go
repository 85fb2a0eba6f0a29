package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Теги записей кэша, по которым выполняется сброс
const (
	TagCatalog = "catalog"
	TagProduct = "product"
	TagPricing = "pricing"
)

// Store - хранилище ответов апстрима с ограниченным временем жизни
type Store interface {
	// Get - значение по ключу, found == false если записи нет или срок истёк
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	// InvalidateTags - удаляет все записи с любым из тегов, возвращает число удалённых записей
	InvalidateTags(ctx context.Context, tags ...string) (int, error)
	Close() error
}

var lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reseller",
	Subsystem: "cache",
	Name:      "lookups_total",
	Help:      "Response cache lookups by tag and result.",
}, []string{"tag", "result"})

func init() {
	prometheus.MustRegister(lookups)
}

// Key - ключ записи из префикса и сериализованных параметров запроса
func Key(prefix string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	return prefix + ":" + string(data)
}

// Remember - возвращает значение из кэша или вызывает fn и сохраняет результат.
// Ошибки хранилища не прерывают запрос: значение получается напрямую.
// Результат fn не сохраняется при ошибке или отменённом контексте.
func Remember(ctx context.Context, store Store, key string, ttl time.Duration, tags []string, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if store == nil || ttl <= 0 {
		return fn(ctx)
	}
	label := strings.Join(tags, ",")

	value, found, err := store.Get(ctx, key)
	switch {
	case err != nil:
		lookups.WithLabelValues(label, "error").Inc()
		logger.Warnw("Cache read failed", "key", key, "error", err)
	case found:
		lookups.WithLabelValues(label, "hit").Inc()
		return value, nil
	default:
		lookups.WithLabelValues(label, "miss").Inc()
	}

	value, err = fn(ctx)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return value, nil
	}
	if err := store.Set(ctx, key, value, ttl, tags...); err != nil {
		logger.Warnw("Cache write failed", "key", key, "error", err)
	}
	return value, nil
}
