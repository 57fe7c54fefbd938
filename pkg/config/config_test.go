package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ProviderConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("AMADEUS_CLIENT_ID", "test-id")
	os.Setenv("AMADEUS_CLIENT_SECRET", "test-secret")
	os.Setenv("PROVIDER_TIMEOUT", "3s")
	defer func() {
		os.Unsetenv("AMADEUS_CLIENT_ID")
		os.Unsetenv("AMADEUS_CLIENT_SECRET")
		os.Unsetenv("PROVIDER_TIMEOUT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.True(t, cfg.Providers.AmadeusEnabled())
	assert.Equal(t, 3*time.Second, cfg.Providers.CallTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("AMADEUS_CLIENT_ID")
	os.Unsetenv("AMADEUS_CLIENT_SECRET")
	os.Unsetenv("RAPIDAPI_KEY")
	os.Unsetenv("KIWI_API_KEY")

	cfg, err := Load()
	assert.NoError(t, err)

	// Adapters without credentials must self-disable
	assert.False(t, cfg.Providers.AmadeusEnabled())
	assert.False(t, cfg.Providers.RapidAPIEnabled())
	assert.False(t, cfg.Providers.KiwiEnabled())

	assert.Equal(t, "https://data.xotelo.com/api", cfg.Providers.XoteloBaseURL)
	assert.Equal(t, time.Minute, cfg.RateLimit.SearchWindow)
	assert.Equal(t, 30, cfg.RateLimit.SearchMaxRequests)
	assert.Equal(t, 8080, cfg.Server.Port)
}
