// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the board client.
//
// Fields:
//   - ServerURL: websocket endpoint of the board server.
//   - RoomID: board/room to join on startup.
//   - Token: bearer token for authenticated edits; empty means guest.
//   - CachePath: SQLite file for the local board cache.
type Config struct {
	ServerURL string
	RoomID    string
	Token     string
	CachePath string
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "ws://localhost:3000/ws"
	c.RoomID = "board1"
	c.Token = ""
	c.CachePath = "drawboard.db"
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
