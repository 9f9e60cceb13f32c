package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/flagx"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept
// strings such as "90s" or integer nanoseconds. Zero values leave the
// current setting alone.
type FileConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabasePath                string         `json:"database_path" yaml:"database_path"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level" yaml:"log_level"`
	LogFormat                   string         `json:"log_format" yaml:"log_format"`
	Capacity                    int            `json:"capacity" yaml:"capacity"`
	LoginAttemptsPerMinute      float64        `json:"login_attempts_per_minute" yaml:"login_attempts_per_minute"`
	LoginBurst                  int            `json:"login_burst" yaml:"login_burst"`
	HTTPRequestsPerSecond       float64        `json:"http_requests_per_second" yaml:"http_requests_per_second"`
	HTTPBurst                   int            `json:"http_burst" yaml:"http_burst"`
	TariffCacheTTL              timex.Duration `json:"tariff_cache_ttl" yaml:"tariff_cache_ttl"`
	BackupDir                   string         `json:"backup_dir" yaml:"backup_dir"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile loads the file named by -c/-config. A .yaml or .yml extension
// selects YAML, anything else is read as JSON. A missing flag loads nothing;
// an unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}
	c.apply(config)
}

func (f *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrGRPC, f.EndpointAddrGRPC)
	setString(&c.EndpointAddrHTTP, f.EndpointAddrHTTP)
	setString(&c.DatabasePath, f.DatabasePath)
	setString(&c.SecretKey, f.SecretKey)
	if f.AccessTokenValidityDuration.Duration > 0 {
		c.AccessTokenValidityDuration = f.AccessTokenValidityDuration.Duration
	}
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.LogFormat, f.LogFormat)
	if f.Capacity > 0 {
		c.Capacity = f.Capacity
	}
	if f.LoginAttemptsPerMinute > 0 {
		c.LoginAttemptsPerMinute = f.LoginAttemptsPerMinute
	}
	if f.LoginBurst > 0 {
		c.LoginBurst = f.LoginBurst
	}
	if f.HTTPRequestsPerSecond > 0 {
		c.HTTPRequestsPerSecond = f.HTTPRequestsPerSecond
	}
	if f.HTTPBurst > 0 {
		c.HTTPBurst = f.HTTPBurst
	}
	if f.TariffCacheTTL.Duration > 0 {
		c.TariffCacheTTL = f.TariffCacheTTL.Duration
	}
	setString(&c.BackupDir, f.BackupDir)
	setString(&c.S3RootUser, f.S3RootUser)
	setString(&c.S3RootPassword, f.S3RootPassword)
	setString(&c.S3Bucket, f.S3Bucket)
	setString(&c.S3Region, f.S3Region)
	setString(&c.S3BaseEndpoint, f.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
