package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

func validConfig() models.Configuration {
	return models.Configuration{
		TotalTickets:          100,
		MaxTicketCapacity:     50,
		TicketReleaseRate:     2,
		CustomerRetrievalRate: 3,
	}
}

func TestConfigurationStoreRejectsInvalidWithoutRemoteCall(t *testing.T) {
	cases := map[string]struct {
		mutate func(c *models.Configuration)
		reason string
	}{
		"capacity above total": {
			mutate: func(c *models.Configuration) { c.TotalTickets, c.MaxTicketCapacity = 10, 20 },
			reason: "maxTicketCapacity cannot be greater than totalTickets",
		},
		"zero total": {
			mutate: func(c *models.Configuration) { c.TotalTickets = 0 },
			reason: "totalTickets must be greater than 0",
		},
		"negative release rate": {
			mutate: func(c *models.Configuration) { c.TicketReleaseRate = -1 },
			reason: "ticketReleaseRate must be greater than 0",
		},
		"zero retrieval rate": {
			mutate: func(c *models.Configuration) { c.CustomerRetrievalRate = 0 },
			reason: "customerRetrievalRate must be greater than 0",
		},
		"zero capacity": {
			mutate: func(c *models.Configuration) { c.MaxTicketCapacity = 0 },
			reason: "maxTicketCapacity must be greater than 0",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cli := newFakeClient()
			store := NewConfigurationStore(cli, logger.InitializeTestZapLogger())

			prev, err := store.Save(context.Background(), validConfig())
			require.NoError(t, err)

			candidate := validConfig()
			tc.mutate(&candidate)
			_, err = store.Save(context.Background(), candidate)

			var ve *dbErrors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Reasons, tc.reason)
			assert.Equal(t, 1, cli.saveCalls, "no remote call for invalid candidate")

			cur, ok := store.Current()
			require.True(t, ok)
			assert.Equal(t, prev, cur)
		})
	}
}

func TestConfigurationStoreAdoptsEchoedValue(t *testing.T) {
	cli := newFakeClient()
	store := NewConfigurationStore(cli, logger.InitializeTestZapLogger())

	var notified []models.Configuration
	store.OnSave(func(_ context.Context, cfg models.Configuration) {
		notified = append(notified, cfg)
	})

	saved, err := store.Save(context.Background(), validConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, saved, cur)
	require.Len(t, notified, 1)
	assert.Equal(t, saved, notified[0])
}

func TestConfigurationStoreRemoteFailureKeepsValue(t *testing.T) {
	cli := newFakeClient()
	store := NewConfigurationStore(cli, logger.InitializeTestZapLogger())

	cli.set(func(f *fakeClient) {
		f.saveErr = &dbErrors.RemoteError{Op: "POST /configuration", StatusCode: http.StatusBadRequest}
	})

	_, err := store.Save(context.Background(), validConfig())
	assert.True(t, dbErrors.IsRemote(err))

	_, ok := store.Current()
	assert.False(t, ok)
}

func TestConfigurationStoreLoad(t *testing.T) {
	cli := newFakeClient()
	store := NewConfigurationStore(cli, logger.InitializeTestZapLogger())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, dbErrors.ErrConfigurationNotFound)
	_, ok := store.Current()
	assert.False(t, ok)

	cfg := validConfig()
	cfg.ID = 42
	cli.set(func(f *fakeClient) { f.config = &cfg })

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, cfg, cur)
}
