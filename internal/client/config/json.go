package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/drawboard/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files; values are copied into the runtime Config.
type JsonConfig struct {
	ServerURL string `json:"server_url"`
	RoomID    string `json:"room_id"`
	Token     string `json:"token"`
	CachePath string `json:"cache_path"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag, if any.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.RoomID != "" {
		config.RoomID = c.RoomID
	}
	if c.Token != "" {
		config.Token = c.Token
	}
	if c.CachePath != "" {
		config.CachePath = c.CachePath
	}
}
