package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/drawboard/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server websocket URL (e.g., "ws://localhost:3000/ws")
//	-r string   room/board id to join
//	-t string   bearer token; empty joins as guest
//	-f string   local cache file path
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-t", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "server websocket URL")
	fs.StringVar(&config.RoomID, "r", config.RoomID, "room id")
	fs.StringVar(&config.Token, "t", config.Token, "bearer token")
	fs.StringVar(&config.CachePath, "f", config.CachePath, "cache file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
