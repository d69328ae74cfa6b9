package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/arun19061/newstatement/internal/api"
	"github.com/arun19061/newstatement/internal/config"
)

// Run starts the dashboard and blocks until the user quits. basePath is the
// directory the file picker lists.
func Run(cfg config.Config, client *api.Client, log zerolog.Logger, basePath string) error {
	p := tea.NewProgram(newModel(cfg, client, log, basePath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
