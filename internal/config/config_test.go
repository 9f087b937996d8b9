package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/config"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

const operatorAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAPIConfigDefaults(t *testing.T) {
	t.Setenv("LOYALTY_LEDGER_OPERATOR_ADDRESS", operatorAddress)

	cfg, err := config.LoadAPIConfig(writeConfigFile(t, ""), t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "https://api.pinata.cloud", cfg.Pinata.APIURL)
	assert.Equal(t, domain.DEFAULT_IPFS_GATEWAY, cfg.Pinata.GatewayURL)
	assert.Equal(t, domain.ChainEthereumSepolia, cfg.Ethereum.ChainID)
	assert.Equal(t, domain.TOKEN_NAME, cfg.Ledger.TokenName)
	assert.Equal(t, domain.TOKEN_SYMBOL, cfg.Ledger.TokenSymbol)
	assert.Equal(t, domain.TOKEN_DECIMALS, cfg.Ledger.TokenDecimals)
	assert.Equal(t, operatorAddress, cfg.Ledger.OperatorAddress)
	assert.Empty(t, cfg.RateLimiter.RedisAddr)
	assert.Equal(t, "loyalty:limiter:", cfg.RateLimiter.RedisKeyPrefix)
	assert.True(t, cfg.RateLimiter.EnableLocalFallback)
	assert.Equal(t, 3, cfg.RateLimiter.Providers["pinata"].RequestsPerSecond)
	assert.Equal(t, 2*time.Minute, cfg.RateLimiter.Providers["pinata"].MaxQueueTime)
}

func TestLoadAPIConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
debug: true
server:
  port: 9090
database:
  host: db.internal
  user: loyalty
  password: secret
  dbname: loyalty
pinata:
  api_key: test-key
  api_secret: test-secret
ethereum:
  rpc_url: https://sepolia.example.org
  deployment_path: deployments/sepolia.json
ledger:
  operator_address: "`+operatorAddress+`"
  engine_address: "0x742d35cc6634C0532925a3b844bC9e7595f0bEb7"
auth:
  api_keys:
    - key-one
    - key-two
`)

	cfg, err := config.LoadAPIConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "test-key", cfg.Pinata.APIKey)
	assert.Equal(t, "https://sepolia.example.org", cfg.Ethereum.RPCURL)
	assert.Equal(t, "deployments/sepolia.json", cfg.Ethereum.DeploymentPath)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
	assert.Equal(t,
		"host=db.internal port=5432 user=loyalty password=secret dbname=loyalty sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestLoadAPIConfigEnvOverride(t *testing.T) {
	t.Setenv("LOYALTY_LEDGER_OPERATOR_ADDRESS", operatorAddress)
	t.Setenv("LOYALTY_SERVER_PORT", "7070")
	t.Setenv("LOYALTY_PINATA_API_KEY", "env-key")
	t.Setenv("LOYALTY_DATABASE_HOST", "env-db")

	cfg, err := config.LoadAPIConfig(writeConfigFile(t, ""), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Pinata.APIKey)
	assert.Equal(t, "env-db", cfg.Database.Host)
}

func TestLoadAPIConfigRequiresOperator(t *testing.T) {
	_, err := config.LoadAPIConfig(writeConfigFile(t, "debug: true"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator_address is required")
}

func TestLoadAPIConfigRejectsInvalidAddresses(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed operator address",
			yaml:    "ledger:\n  operator_address: not-an-address\n",
			wantErr: "ledger.operator_address",
		},
		{
			name:    "malformed engine address",
			yaml:    "ledger:\n  operator_address: \"" + operatorAddress + "\"\n  engine_address: \"0x123\"\n",
			wantErr: "ledger.engine_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadAPIConfig(writeConfigFile(t, tt.yaml), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPublisherConfigDefaults(t *testing.T) {
	t.Setenv("LOYALTY_LEDGER_OPERATOR_ADDRESS", operatorAddress)

	cfg, err := config.LoadPublisherConfig(writeConfigFile(t, ""), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Sweeper.BatchSize)
	assert.Equal(t, 10, cfg.Sweeper.Worker.WorkerPoolSize)
	assert.Equal(t, 100, cfg.Sweeper.Worker.WorkerQueueSize)
	assert.Equal(t, "https://api.pinata.cloud", cfg.Pinata.APIURL)
}

func TestLoadPublisherConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
sweeper:
  batch_size: 5
  worker:
    pool_size: 2
    queue_size: 10
ledger:
  operator_address: "`+operatorAddress+`"
`)

	cfg, err := config.LoadPublisherConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sweeper.BatchSize)
	assert.Equal(t, 2, cfg.Sweeper.Worker.WorkerPoolSize)
	assert.Equal(t, 10, cfg.Sweeper.Worker.WorkerQueueSize)
}

func TestLoadEnvFile(t *testing.T) {
	// Registered so the values godotenv loads are restored after the test
	t.Setenv("LOYALTY_LEDGER_OPERATOR_ADDRESS", "")
	t.Setenv("LOYALTY_PINATA_API_SECRET", "")

	envDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(envDir, ".env"),
		[]byte("LOYALTY_LEDGER_OPERATOR_ADDRESS="+operatorAddress+"\nLOYALTY_PINATA_API_SECRET=dotenv-secret\n"),
		0o600,
	))

	cfg, err := config.LoadAPIConfig(writeConfigFile(t, ""), envDir)
	require.NoError(t, err)

	assert.Equal(t, operatorAddress, cfg.Ledger.OperatorAddress)
	assert.Equal(t, "dotenv-secret", cfg.Pinata.APISecret)
}
