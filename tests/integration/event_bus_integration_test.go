//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/adapters/analytics"
	"github.com/triporia/travelsearch/backend/internal/adapters/events"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	channel := providers.EventChannelSearches
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := &entities.SearchEvent{
		ID:          "evt-redis-1",
		Domain:      entities.SearchDomainHotels,
		Location:    "Paris",
		ResultCount: 12,
		Sources:     map[string]int{"booking": 12},
		LatencyMs:   420,
		CreatedAt:   time.Now(),
	}

	err = eventBus.Publish(context.Background(), channel, event)
	require.NoError(t, err)

	received1 := waitForSearchEvent(t, sub1)
	received2 := waitForSearchEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, event.Location, received1.Location)
}

func TestRedisAnalyticsRetainsFallbackSearches(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	repo := analytics.NewRedisAdapter(redisClient)
	ctx := context.Background()

	served := &entities.SearchEvent{
		Domain:      entities.SearchDomainHotels,
		Location:    "Paris",
		ResultCount: 8,
		Mock:        false,
	}
	fallbackServed := &entities.SearchEvent{
		Domain:      entities.SearchDomainCars,
		Location:    "Ouagadougou",
		ResultCount: 3,
		Mock:        true,
	}

	require.NoError(t, repo.LogEvent(ctx, served))
	require.NoError(t, repo.LogEvent(ctx, fallbackServed))

	queries, err := repo.GetZeroResultQueries(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, queries)

	// Only the fallback-served search is retained, newest first.
	assert.Equal(t, "Ouagadougou", queries[0].Location)
	for _, q := range queries {
		assert.True(t, q.Mock)
	}
}

func waitForSearchEvent(t *testing.T, ch <-chan *entities.SearchEvent) *entities.SearchEvent {
	t.Helper()

	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search event")
		return nil
	}
}
