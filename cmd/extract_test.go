package cmd

import (
	"context"
	"testing"

	"voucher-extractor/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplyExtractFlags(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	flags := extractCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"orders-file", "top", "json"} {
			flags.Lookup(name).Changed = false
		}
	})
	require.NoError(t, flags.Set("orders-file", "in/orders.csv"))
	require.NoError(t, flags.Set("top", "3"))
	require.NoError(t, flags.Set("json", "true"))

	applyExtractFlags(flags, cfg)

	assert.Equal(t, "in/orders.csv", cfg.Extract.OrdersFile)
	assert.Equal(t, 3, cfg.Extract.TopCustomers)
	assert.True(t, cfg.Extract.JSON)
	assert.Equal(t, "data/barcodes.csv", cfg.Extract.BarcodesFile)
	assert.Equal(t, "output", cfg.Extract.OutputDir)
}

func TestBuildWriters(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Extract.JSON = true

	writers, err := buildWriters(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)

	var names []string
	for _, w := range writers {
		names = append(names, w.Name())
	}
	assert.Equal(t, []string{"stdout", "file", "json"}, names)
}
