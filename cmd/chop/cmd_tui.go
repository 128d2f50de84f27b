package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/app"
	"github.com/sadopc/chop/internal/config"
	"github.com/sadopc/chop/internal/route"
)

var tuiRoute string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive interface",
	Long: `Launch the interactive interface, optionally at a given route.

Routes:
  /        landing page
  /signin  sign in
  /signup  create an account
  /home    the shortener (requires sign-in)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiRoute, "route", string(route.Landing), "Initial route")
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info().Str("route", tuiRoute).Msg("starting tui")

	model := app.New(app.Deps{
		Config:    e.cfg,
		Session:   e.session,
		History:   e.history,
		Shortener: e.shortener,
		Clipboard: clipboard.WriteAll,
		OpenURL:   openBrowser,
		Logger:    e.log,
		Route:     tuiRoute,
		ThemesDir: config.ThemesDir(),
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(commandContext(cmd)),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
