package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the ParkDesk operator console.
//
// Fields:
//   - ServerEndpointAddr: host:port of the server gRPC endpoint.
//   - OnlineCheckInterval: how often the console probes server reachability.
//   - RequestTimeout: deadline of every call to the server.
//   - LogLevel: level of the console's text logger.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 5 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// PARKDESK_SERVER_ADDR variable, a JSON or YAML file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
