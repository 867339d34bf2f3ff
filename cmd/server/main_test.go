package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_URL", "")

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load configuration")
	})

	t.Run("unreachable database", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://lineup@127.0.0.1:1/lineup?connect_timeout=1")
		t.Setenv("REDIS_URL", "")

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connect to database")
	})
}
