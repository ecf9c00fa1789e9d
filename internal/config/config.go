package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	LogLevel string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// External collaborators.
	OracleURL   string
	OracleToken string
	PayoutURL   string

	// Owner token gates the admin registry endpoints.
	OwnerToken string

	// Component identities used for cross-component call gating.
	OrchestratorIdentity string
	BridgeIdentity       string

	// Oracle request defaults.
	OracleSource         string
	OracleSubscriptionID uint64
	OracleGasLimit       uint32
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lendpool"),
		MySQLUser: getenv("MYSQL_USER", "lendpool"),
		MySQLPass: getenv("MYSQL_PASS", "lendpool"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		OracleURL:   getenv("ORACLE_URL", "http://oracle:9090"),
		OracleToken: os.Getenv("ORACLE_TOKEN"),
		PayoutURL:   getenv("PAYOUT_URL", "http://payout:9091"),
		OwnerToken:  os.Getenv("OWNER_TOKEN"),

		OrchestratorIdentity: getenv("ORCHESTRATOR_IDENTITY", "loan-orchestrator"),
		BridgeIdentity:       getenv("BRIDGE_IDENTITY", "oracle-bridge"),

		OracleSource:         getenv("ORACLE_SOURCE", "credit-score-v1"),
		OracleSubscriptionID: 1,
		OracleGasLimit:       300_000,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("ORACLE_SUBSCRIPTION_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.OracleSubscriptionID = n
		}
	}
	if v := os.Getenv("ORACLE_GAS_LIMIT"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.OracleGasLimit = uint32(n)
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.OracleURL == "" {
		return errors.New("missing ORACLE_URL")
	}
	if c.PayoutURL == "" {
		return errors.New("missing PAYOUT_URL")
	}
	if c.OracleToken == "" {
		return errors.New("missing ORACLE_TOKEN (fulfillment webhook auth)")
	}
	if c.OwnerToken == "" {
		return errors.New("missing OWNER_TOKEN (admin endpoint auth)")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
