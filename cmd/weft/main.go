// Command weft runs the demo counter app in the terminal. Bubbletea
// frame ticks play the host scheduler role: every tick hands the engine
// a slice of the frame budget, and the next tick is requested
// unconditionally so later state updates are always picked up.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/weft/loom"
	"github.com/delaneyj/weft/termdom"
)

const (
	fpsKey    = "fps"
	budgetKey = "budget"
)

func main() {
	cmd := &cli.Command{
		Name:  "weft",
		Usage: "Interactive counter rendered through the loom engine",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  fpsKey,
				Usage: "Frames per second for the work loop",
				Value: 60,
			},
			&cli.UintFlag{
				Name:  budgetKey,
				Usage: "Work budget per frame in microseconds",
				Value: 4000,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	fps := cmd.Uint(fpsKey)
	if fps == 0 {
		fps = 60
	}

	surface := termdom.New()
	engine, err := loom.New(surface)
	if err != nil {
		return err
	}

	app := &demo{
		engine:  engine,
		surface: surface,
		frame:   time.Second / time.Duration(fps),
		budget:  time.Duration(cmd.Uint(budgetKey)) * time.Microsecond,
	}
	if err := engine.Render(loom.El(loom.Func(app.counter), nil), surface.Container()); err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type frameMsg time.Time

type demo struct {
	engine  *loom.Engine
	surface *termdom.Surface
	frame   time.Duration
	budget  time.Duration
	err     error
}

func (d *demo) counter(props loom.Props) *loom.Element {
	count, setCount := loom.UseState(d.engine, 0)
	return loom.El(loom.Tag("box"), loom.Props{
		"title": "weft counter",
		"onPress": termdom.Listener(func() {
			setCount(func(c int) int { return c + 1 })
		}),
	},
		loom.El(loom.Tag("text"), loom.Props{"bold": count%2 == 0},
			fmt.Sprintf("pressed %d times", count),
		),
		loom.El(loom.Tag("text"), loom.Props{"fg": "240"},
			"space to press, q to quit",
		),
	)
}

func (d *demo) tick() tea.Cmd {
	return tea.Tick(d.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (d *demo) Init() tea.Cmd {
	return d.tick()
}

func (d *demo) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if _, err := d.engine.Tick(loom.Until(time.Now().Add(d.budget))); err != nil {
			d.err = err
			return d, tea.Quit
		}
		return d, d.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return d, tea.Quit
		case " ", "enter":
			d.surface.Dispatch("press")
		}
	}
	return d, nil
}

func (d *demo) View() string {
	if d.err != nil {
		return fmt.Sprintf("render failed: %v\n", d.err)
	}
	return d.surface.View() + "\n"
}
