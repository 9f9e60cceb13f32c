// Package config handles configuration for the server component:
// defaults, an optional .env file, PARKDESK_* environment variables,
// a JSON or YAML file and finally command-line flags, in that order.
package config

import "time"

// Config holds runtime settings for the ParkDesk server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses of the two transports.
//   - DatabasePath: SQLite file backing the store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: lifetime of an operator session token.
//   - Capacity: number of bays, used for the occupancy metric.
//   - LoginAttemptsPerMinute / LoginBurst: per-username login throttle.
//   - HTTPRequestsPerSecond / HTTPBurst: per-IP limiter of the HTTP surface.
//   - TariffCacheTTL: how long resolved default rates stay cached.
//   - BackupDir: where backup files are written.
//   - S3*: optional off-site copy of every backup; empty bucket disables it.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	DatabasePath                string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	LogLevel                    string
	LogFormat                   string
	Capacity                    int
	LoginAttemptsPerMinute      float64
	LoginBurst                  int
	HTTPRequestsPerSecond       float64
	HTTPBurst                   int
	TariffCacheTTL              time.Duration
	BackupDir                   string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabasePath = "data/parkdesk.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 12 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.Capacity = 100
	c.LoginAttemptsPerMinute = 5
	c.LoginBurst = 5
	c.HTTPRequestsPerSecond = 10
	c.HTTPBurst = 20
	c.TariffCacheTTL = 5 * time.Minute
	c.BackupDir = "data/backups"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from every source in precedence order.
// Malformed input panics; the server cannot start without a usable config.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
