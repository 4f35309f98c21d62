package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/drawboard/internal/client/export"
	"github.com/dmitrijs2005/drawboard/internal/client/history"
	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

func (a *App) list() {
	shapes := a.session.Shapes()
	if len(shapes) == 0 {
		fmt.Println("(empty board)")
		return
	}
	for _, s := range shapes {
		c := s.Center()
		fmt.Printf("%-36s %-8s at (%.0f, %.0f)\n", s.ID, s.Kind, c.X, c.Y)
	}
}

// add rect|circle|triangle|line <coords...>
func (a *App) add(args []string) {
	usage := func() {
		fmt.Println("Usage: add rect <x> <y> <w> <h> | add circle <x> <y> <r> | add triangle <x> <y> <w> <h> | add line <x1> <y1> <x2> <y2>")
	}
	if len(args) < 1 {
		usage()
		return
	}
	nums, err := floats(args[1:])
	if err != nil {
		usage()
		return
	}

	s := store.Shape{ID: uuid.NewString(), Stroke: "#000000", StrokeWidth: 2, Opacity: 1}
	switch args[0] {
	case "rect", "triangle":
		if len(nums) != 4 {
			usage()
			return
		}
		s.Kind = store.KindRect
		if args[0] == "triangle" {
			s.Kind = store.KindTriangle
		}
		s.Left, s.Top, s.Width, s.Height = nums[0], nums[1], nums[2], nums[3]
	case "circle":
		if len(nums) != 3 {
			usage()
			return
		}
		s.Kind = store.KindCircle
		s.Left, s.Top, s.Radius = nums[0], nums[1], nums[2]
	case "line":
		if len(nums) != 4 {
			usage()
			return
		}
		s.Kind = store.KindLine
		s.Points = []store.Point{{X: nums[0], Y: nums[1]}, {X: nums[2], Y: nums[3]}}
	default:
		usage()
		return
	}

	if err := a.session.Add(s); err != nil {
		fmt.Println("add failed:", err)
		return
	}
	fmt.Println("added", s.ID)
}

func (a *App) move(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: move <id> <x> <y>")
		return
	}
	s, ok := a.session.Shape(args[0])
	if !ok {
		fmt.Println("no such shape:", args[0])
		return
	}
	nums, err := floats(args[1:])
	if err != nil {
		fmt.Println("Usage: move <id> <x> <y>")
		return
	}
	s.Left, s.Top = nums[0], nums[1]
	if err := a.session.Modify(s); err != nil {
		fmt.Println("move failed:", err)
	}
}

func (a *App) remove(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: remove <id>")
		return
	}
	if err := a.session.Remove(args[0]); err != nil {
		fmt.Println("remove failed:", err)
	}
}

// erase sweeps the eraser along a straight stroke.
func (a *App) erase(args []string) {
	nums, err := floats(args)
	if err != nil || len(nums) != 4 {
		fmt.Println("Usage: erase <x1> <y1> <x2> <y2>")
		return
	}
	g := a.session.BeginErase(store.Point{X: nums[0], Y: nums[1]})
	g.Move(store.Point{X: nums[2], Y: nums[3]})
	erased, err := g.End()
	if err != nil {
		fmt.Println("erase failed:", err)
		return
	}
	fmt.Printf("erased %d shape(s)\n", len(erased))
}

func (a *App) undo() {
	res := a.session.Undo()
	report("undo", res)
}

func (a *App) redo() {
	res := a.session.Redo()
	report("redo", res)
}

func report(op string, res history.Result) {
	fmt.Println(reportMsg(op, res))
}

// reportMsg renders an undo/redo outcome. Discarded stale commands are
// always mentioned, even when the stack ran out before anything applied.
func reportMsg(op string, res history.Result) string {
	if res.Outcome == history.Empty {
		if res.Skipped > 0 {
			return fmt.Sprintf("nothing to %s (skipped %d stale)", op, res.Skipped)
		}
		return fmt.Sprintf("nothing to %s", op)
	}
	if res.Skipped > 0 {
		return fmt.Sprintf("%s: %s (skipped %d stale)", op, res.Command, res.Skipped)
	}
	return fmt.Sprintf("%s: %s", op, res.Command)
}

func (a *App) lock(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: lock <id>")
		return
	}
	if err := a.session.RequestLock(args[0]); err != nil {
		fmt.Println("lock request failed:", err)
	}
}

func (a *App) unlock(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: unlock <id>")
		return
	}
	if err := a.session.ReleaseLock(args[0]); err != nil {
		fmt.Println("unlock failed:", err)
	}
}

func (a *App) clear() {
	if err := a.session.Clear(); err != nil {
		fmt.Println("clear failed:", err)
	}
}

func (a *App) save(ctx context.Context) {
	if err := a.cache.Save(ctx, a.config.RoomID, a.session.Snapshot()); err != nil {
		fmt.Println("save failed:", err)
		return
	}
	fmt.Println("saved to", a.config.CachePath)
}

func (a *App) load(ctx context.Context) {
	doc, err := a.cache.Load(ctx, a.config.RoomID)
	if err != nil {
		fmt.Println("load failed:", err)
		return
	}
	if err := a.session.LoadDocument(doc); err != nil {
		fmt.Println("load failed:", err)
		return
	}
	fmt.Printf("loaded %d shape(s)\n", len(doc.Objects))
}

func (a *App) export(args []string) {
	path := "board.pdf"
	if len(args) > 0 {
		path = args[0]
	}
	if err := export.ToPDF(a.session.Shapes(), path); err != nil {
		fmt.Println("export failed:", err)
		return
	}
	fmt.Println("exported to", path)
}

// protect sets or clears the board's share password and publishes the
// updated metadata.
func (a *App) protect() {
	password, err := GetPassword()
	if err != nil {
		fmt.Println("reading password failed:", err)
		return
	}
	doc := a.session.Snapshot()
	if err := doc.Meta.SetPassword(string(password)); err != nil {
		fmt.Println("protect failed:", err)
		return
	}
	if err := a.session.Publish(doc); err != nil {
		fmt.Println("protect failed:", err)
		return
	}
	if len(password) == 0 {
		fmt.Println("password cleared")
	} else {
		fmt.Println("board protected")
	}
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
