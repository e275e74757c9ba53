package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if ctx.Recents != nil {
		if err := ctx.Recents.Open(); err != nil {
			// The cache is an accelerator, not a dependency.
			fmt.Fprintf(os.Stderr, "Aviso: caché de recientes no disponible: %v\n", err)
			ctx.Recents = nil
		} else {
			defer ctx.Recents.Close()
			defer ctx.Recents.Prune(constants.RecentSelections)
		}
	}

	p := tea.NewProgram(tui.NewModel(ctx.Client, ctx.Recents, ctx.Config.DataDir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
