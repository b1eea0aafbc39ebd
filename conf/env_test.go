package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetPgConnStrFromEnvLocalPassword(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "codearena")
	t.Setenv("POSTGRES_PW", "local-dev-pw")
	t.Setenv("POSTGRES_DB", "codearena")
	t.Setenv("POSTGRES_SSLMODE", "")

	got := GetPgConnStrFromEnv()
	require.Equal(t,
		"host=localhost port=5432 user=codearena password=local-dev-pw dbname=codearena sslmode=disable",
		got)
}

func TestGetPgConnStrFromEnvExplicitSslmode(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "codearena")
	t.Setenv("POSTGRES_PW", "pw")
	t.Setenv("POSTGRES_DB", "codearena")
	t.Setenv("POSTGRES_SSLMODE", "require")

	require.Contains(t, GetPgConnStrFromEnv(), "sslmode=require")
}

func TestGetMaxDeliveriesFromEnv(t *testing.T) {
	t.Setenv("SUBM_CMD_MAX_DELIVERIES", "")
	require.Equal(t, 3, GetMaxDeliveriesFromEnv())

	t.Setenv("SUBM_CMD_MAX_DELIVERIES", "5")
	require.Equal(t, 5, GetMaxDeliveriesFromEnv())

	t.Setenv("SUBM_CMD_MAX_DELIVERIES", "zero")
	require.Panics(t, func() { GetMaxDeliveriesFromEnv() })
}

func TestGetInviteTTLFromEnv(t *testing.T) {
	t.Setenv("INVITE_TOKEN_TTL", "")
	require.Equal(t, 48*time.Hour, GetInviteTTLFromEnv())

	t.Setenv("INVITE_TOKEN_TTL", "2h30m")
	require.Equal(t, 2*time.Hour+30*time.Minute, GetInviteTTLFromEnv())
}
