package envstruct_test

import (
	"testing"

	"github.com/learnzy/learnzy/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	type config struct {
		Addr      string `env:"LEARNZY_ADDR" envDefault:"localhost:4000"`
		SqliteURL string `env:"LEARNZY_SQLITE_URL"`
		ignored   string //nolint:unused // asserts that untagged fields are skipped
	}

	lookupEnv := func(key string) (string, bool) {
		if key == "LEARNZY_SQLITE_URL" {
			return ":memory:", true
		}
		return "", false
	}

	t.Run("defaults and lookups", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, lookupEnv)
		require.NoError(t, err)
		require.Equal(t, "localhost:4000", cfg.Addr)
		require.Equal(t, ":memory:", cfg.SqliteURL)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, func(string) (string, bool) { return "", false })
		require.ErrorIs(t, err, envstruct.ErrEnvNotSet)
	})

	t.Run("not a pointer", func(t *testing.T) {
		err := envstruct.Populate(config{}, lookupEnv)
		require.ErrorIs(t, err, envstruct.ErrInvalidValue)
	})

	t.Run("not a struct", func(t *testing.T) {
		s := "nope"
		err := envstruct.Populate(&s, lookupEnv)
		require.ErrorIs(t, err, envstruct.ErrInvalidValue)
	})

	t.Run("unsupported field type", func(t *testing.T) {
		type badConfig struct {
			Port int `env:"LEARNZY_PORT" envDefault:"4000"`
		}
		var cfg badConfig
		err := envstruct.Populate(&cfg, lookupEnv)
		require.ErrorIs(t, err, envstruct.ErrInvalidValue)
	})
}
