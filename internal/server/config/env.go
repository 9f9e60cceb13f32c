package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PARKDESK_"

// envSetters maps each variable (without prefix) to the field it sets.
var envSetters = map[string]func(c *Config, v string) error{
	"GRPC_ADDR":     func(c *Config, v string) error { c.EndpointAddrGRPC = v; return nil },
	"HTTP_ADDR":     func(c *Config, v string) error { c.EndpointAddrHTTP = v; return nil },
	"DATABASE_PATH": func(c *Config, v string) error { c.DatabasePath = v; return nil },
	"SECRET_KEY":    func(c *Config, v string) error { c.SecretKey = v; return nil },
	"TOKEN_TTL":     func(c *Config, v string) error { return setDuration(&c.AccessTokenValidityDuration, v) },
	"LOG_LEVEL":     func(c *Config, v string) error { c.LogLevel = v; return nil },
	"LOG_FORMAT":    func(c *Config, v string) error { c.LogFormat = v; return nil },
	"CAPACITY":      func(c *Config, v string) error { return setInt(&c.Capacity, v) },
	"LOGIN_RATE":    func(c *Config, v string) error { return setFloat(&c.LoginAttemptsPerMinute, v) },
	"LOGIN_BURST":   func(c *Config, v string) error { return setInt(&c.LoginBurst, v) },
	"HTTP_RATE":     func(c *Config, v string) error { return setFloat(&c.HTTPRequestsPerSecond, v) },
	"HTTP_BURST":    func(c *Config, v string) error { return setInt(&c.HTTPBurst, v) },
	"TARIFF_TTL":    func(c *Config, v string) error { return setDuration(&c.TariffCacheTTL, v) },
	"BACKUP_DIR":    func(c *Config, v string) error { c.BackupDir = v; return nil },
	"S3_USER":       func(c *Config, v string) error { c.S3RootUser = v; return nil },
	"S3_PASSWORD":   func(c *Config, v string) error { c.S3RootPassword = v; return nil },
	"S3_BUCKET":     func(c *Config, v string) error { c.S3Bucket = v; return nil },
	"S3_REGION":     func(c *Config, v string) error { c.S3Region = v; return nil },
	"S3_ENDPOINT":   func(c *Config, v string) error { c.S3BaseEndpoint = v; return nil },
}

// parseEnv loads dotenv (a missing file is fine; variables already set in
// the environment win) and applies every PARKDESK_* variable.
func parseEnv(config *Config, dotenv string) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}
	for name, set := range envSetters {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		if err := set(config, v); err != nil {
			panic(envPrefix + name + ": " + err.Error())
		}
	}
}

func setDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}
