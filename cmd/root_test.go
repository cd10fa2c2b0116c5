package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webdevtodayjason/bookpeek/internal/config"
	"github.com/webdevtodayjason/bookpeek/internal/testutil"
)

func TestInitConfigDefaults(t *testing.T) {
	testutil.ResetViper(t)

	initConfig()

	require.Equal(t, ":8000", config.ListenAddr)
	require.Equal(t, 15*time.Minute, config.CacheTTL)
	require.Equal(t, 100*time.Millisecond, config.RateLimitDelay)
}

func TestUpdateGlobalConfigAppliesFlags(t *testing.T) {
	testutil.ResetViper(t)
	initConfig()

	cli := CLI{
		APIKey:   "flag-key",
		CacheTTL: "5m",
	}
	updateGlobalConfig(&cli)

	require.Equal(t, "flag-key", config.GoogleBooksAPIKey)
	require.Equal(t, 5*time.Minute, config.CacheTTL)
}

func TestNewServiceUsesConfig(t *testing.T) {
	testutil.ResetViper(t)
	initConfig()

	service := newService()
	t.Cleanup(service.Close)

	require.NotNil(t, service.Client())
	require.Equal(t, 0, service.Client().Cache().Len())
}

func TestSearchCmdRejectsInvalidQuery(t *testing.T) {
	testutil.ResetViper(t)
	initConfig()

	cmd := SearchCmd{Query: []string{"a"}}
	err := cmd.Run()

	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid search query")
}
