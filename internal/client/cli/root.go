package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) root(ctx context.Context, done <-chan error) {
	fmt.Printf("Drawboard CLI, room %q (type 'help' for commands)\n", a.config.RoomID)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		select {
		case err := <-done:
			fmt.Println("connection lost:", err)
			return
		case <-ctx.Done():
			return
		default:
		}

		fmt.Printf("drawboard %s> ", a.config.RoomID)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: list, add, move, remove, erase, undo, redo, lock, unlock, clear, save, load, export, protect, exit")

		case "list":
			a.list()
		case "add":
			a.add(args)
		case "move":
			a.move(args)
		case "remove":
			a.remove(args)
		case "erase":
			a.erase(args)
		case "undo":
			a.undo()
		case "redo":
			a.redo()
		case "lock":
			a.lock(args)
		case "unlock":
			a.unlock(args)
		case "clear":
			a.clear()
		case "save":
			a.save(ctx)
		case "load":
			a.load(ctx)
		case "export":
			a.export(args)
		case "protect":
			a.protect()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
