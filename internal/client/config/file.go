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

// FileConfig is the on-disk shape of the console config. Durations accept
// strings like "3s" or integer nanoseconds.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
}

// parseEnv applies PARKDESK_SERVER_ADDR when set.
func parseEnv(cfg *Config) {
	if v := os.Getenv("PARKDESK_SERVER_ADDR"); v != "" {
		cfg.ServerEndpointAddr = v
	}
}

// parseFile overlays cfg with the file named by -c/-config. YAML is chosen
// by a .yaml or .yml extension. Read or decode errors panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
