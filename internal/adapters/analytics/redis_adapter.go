package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/repositories"
	redisclient "github.com/triporia/travelsearch/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/triporia/travelsearch/backend/pkg/errors"
)

const (
	zeroResultKey = "analytics:search:zero-result"
	maxRetained   = 500
)

// RedisAdapter keeps recent search events in Redis. There is no durable
// store in this service, so analytics are a bounded rolling window: recent
// fallback-served searches are retained so operators can see which locations
// real providers keep failing to cover.
type RedisAdapter struct {
	client *redisclient.Client
}

func NewRedisAdapter(client *redisclient.Client) repositories.SearchAnalyticsRepository {
	return &RedisAdapter{client: client}
}

// LogEvent records one completed search. Only searches that fell back to
// static inventory are retained; real-result searches are already visible
// through metrics.
func (a *RedisAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if !event.Mock {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal search event", err)
	}

	pipe := a.client.Client().TxPipeline()
	pipe.LPush(ctx, zeroResultKey, payload)
	pipe.LTrim(ctx, zeroResultKey, 0, maxRetained-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// GetZeroResultQueries returns the most recent searches served from fallback
// inventory, newest first.
func (a *RedisAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 || limit > maxRetained {
		limit = 100
	}

	raw, err := a.client.Client().LRange(ctx, zeroResultKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}

	events := make([]*entities.SearchEvent, 0, len(raw))
	for _, item := range raw {
		e := &entities.SearchEvent{}
		if err := json.Unmarshal([]byte(item), e); err != nil {
			continue
		}
		events = append(events, e)
	}

	return events, nil
}
