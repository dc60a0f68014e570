package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nexusai/cmd/nexusai/call"
	"nexusai/internal/pacing"
	"nexusai/internal/persona"
	"nexusai/internal/store"
)

// callCmd starts an interactive simulated call with a persona.
var callCmd = &cobra.Command{
	Use:   "call [persona-id]",
	Short: "Start an interactive call with a persona",
	Long: `Opens a terminal call with the chosen persona. Replies come from the
persona's keyword rules with a simulated thinking delay. The transcript is
saved as a recording when the call ends.

Example:
  nexusai call health-coach`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	p := catalog.FindOrFirst(id)

	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	model := call.New(call.Deps{
		Persona: p,
		Engine:  persona.NewEngine(),
		Pacer:   pacing.New(cfg.Pacing),
		Repo:    s,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// loadCatalog returns the configured persona catalog, or the built-in one
// when no catalog file is set.
func loadCatalog() (*persona.Catalog, error) {
	if cfg.Personas.CatalogPath == "" {
		return persona.Default(), nil
	}
	catalog, err := persona.LoadFile(cfg.Personas.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona catalog: %w", err)
	}
	return catalog, nil
}
