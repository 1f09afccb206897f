package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearWMSEnv unsets every WMS_ variable for the duration of the test
func clearWMSEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "WMS_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearWMSEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "wms", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Workflow.RequiresPurchaseOrder)
		assert.True(t, cfg.Workflow.RequiresApproval)
		assert.Equal(t, 7, cfg.Dashboard.UpcomingDays)
		assert.True(t, cfg.Dashboard.TomorrowBucket)
		assert.Equal(t, 30, cfg.Notification.RetentionDays)
		assert.Equal(t, 7, cfg.Scheduler.DailyHour)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
		assert.Equal(t, "wms.procurement.events", cfg.Kafka.Topic)
		assert.Equal(t, "/metrics", cfg.Telemetry.MetricsPath)
	})

	t.Run("loads values from environment variables with WMS prefix", func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_APP_NAME", "test-app")
		t.Setenv("WMS_APP_PORT", "9000")
		t.Setenv("WMS_DATABASE_HOST", "testdb.local")
		t.Setenv("WMS_DATABASE_PORT", "5433")
		t.Setenv("WMS_DATABASE_PASSWORD", "testpass")
		t.Setenv("WMS_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("WMS_WORKFLOW_REQUIRES_APPROVAL", "false")
		t.Setenv("WMS_WORKFLOW_REQUIRES_PURCHASE_ORDER", "false")
		t.Setenv("WMS_DASHBOARD_UPCOMING_DAYS", "3")
		t.Setenv("WMS_SCHEDULER_DAILY_HOUR", "6")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Workflow.RequiresApproval)
		assert.False(t, cfg.Workflow.RequiresPurchaseOrder)
		assert.Equal(t, 3, cfg.Dashboard.UpcomingDays)
		assert.Equal(t, 6, cfg.Scheduler.DailyHour)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("requires credentials when storage is enabled", func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("rejects out of range reminder time", func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_SCHEDULER_DAILY_HOUR", "25")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.daily_hour")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearWMSEnv(t)
		t.Setenv("WMS_APP_ENV", "production")
		t.Setenv("WMS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("WMS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("WMS_DATABASE_SSLMODE", "require")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "valid production config"},
		{name: "missing jwt secret", env: map[string]string{"WMS_JWT_SECRET": ""}, wantErr: "jwt.secret is required in production"},
		{name: "short jwt secret", env: map[string]string{"WMS_JWT_SECRET": "short-secret"}, wantErr: "at least 32 characters"},
		{name: "missing database password", env: map[string]string{"WMS_DATABASE_PASSWORD": ""}, wantErr: "database.password is required in production"},
		{name: "ssl disabled", env: map[string]string{"WMS_DATABASE_SSLMODE": "disable"}, wantErr: "database.sslmode cannot be 'disable'"},
		{name: "sqlite in production", env: map[string]string{"WMS_DATABASE_DRIVER": "sqlite"}, wantErr: "must be postgres in production"},
		{name: "open swagger", env: map[string]string{"WMS_SWAGGER_ENABLED": "true"}, wantErr: "swagger endpoint must be disabled"},
		{name: "swagger behind auth", env: map[string]string{"WMS_SWAGGER_ENABLED": "true", "WMS_SWAGGER_REQUIRE_AUTH": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "production", cfg.App.Env)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}
