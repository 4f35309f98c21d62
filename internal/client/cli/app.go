// Package cli provides the interactive drawboard command-line client.
//
// It wires configuration, the local board cache, and a live room session
// into an interactive REPL. Typical flow: connect to the server, join
// the configured room, and execute user commands until exit.
//
// Key features:
//   - Draw and modify shapes; erase with a stroke
//   - Undo / Redo, tolerant of concurrent edits by others
//   - Object locks (request / release)
//   - Save to and load from the local cache; PDF export
//   - Protect the board with a share password
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/drawboard/internal/client/cache"
	"github.com/dmitrijs2005/drawboard/internal/client/config"
	"github.com/dmitrijs2005/drawboard/internal/client/session"
	"github.com/dmitrijs2005/drawboard/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	cache   *cache.Cache
	session *session.Session
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := cache.Open(ctx, c.CachePath)
	if err != nil {
		return nil, err
	}
	return &App{
		config: c,
		log:    log,
		cache:  store,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run connects to the configured room and drives the REPL until the user
// exits or the connection drops.
func (a *App) Run(ctx context.Context) error {
	defer a.cache.Close()

	sess, err := session.Dial(ctx, a.config.ServerURL, a.config.RoomID, a.log,
		session.WithToken(a.config.Token),
		session.WithListener(&printListener{}),
	)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", a.config.ServerURL, err)
	}
	a.session = sess
	defer sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	a.root(ctx, done)
	return nil
}

// printListener surfaces room events on stdout between prompts.
type printListener struct{}

func (printListener) LockGranted(id string) {
	fmt.Printf("\nlock granted: %s\n", id)
}

func (printListener) LockDenied(id, holder string) {
	fmt.Printf("\nlock denied: %s is held by %s\n", id, holder)
}

func (printListener) ObjectLocked(id, user string) {
	fmt.Printf("\n%s locked %s\n", user, id)
}

func (printListener) ObjectUnlocked(id string) {
	fmt.Printf("\nunlocked: %s\n", id)
}

func (printListener) Notice(text string) {
	fmt.Printf("\n%s\n", text)
}

func (printListener) BoardUpdated() {}
