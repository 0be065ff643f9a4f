package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/config"
	"github.com/MrJamesThe3rd/ahorros/internal/store"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "file", driver: config.DriverFile},
		{name: "memory", driver: config.DriverMemory},
		{name: "unknown driver", driver: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Store.Driver = tt.driver
			cfg.Store.Path = t.TempDir()
			cfg.Store.Key = "test_doc"
			cfg.App.Currency = "USD"

			s, closeFn, err := store.Open(context.Background(), cfg)
			require.NotNil(t, closeFn)
			defer closeFn()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, s)
				return
			}

			require.NoError(t, err)

			doc, err := s.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Empty(t, doc.Transactions)
			assert.Equal(t, "USD", doc.Meta.Currency)
		})
	}
}
