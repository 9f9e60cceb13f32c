// Package config loads runtime configuration for the ParkDesk operator console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. PARKDESK_SERVER_ADDR.
//  3. Optional JSON or YAML file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// # File schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "5s",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config
