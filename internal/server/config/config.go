// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the board server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP/websocket endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty runs the in-memory store.
//   - SecretKey: HMAC secret for verifying draw tokens (HS256).
//   - LockTTL: lifetime of an object lock without renewal.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: snapshot archive settings; an
//     empty bucket disables archiving.
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	SecretKey      string
	LockTTL        time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.LockTTL = 30 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
