package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nexusai/internal/demo"
	"nexusai/internal/store"
)

var demoSave bool

// demoCmd materializes the demo scripts for a field into recordings.
var demoCmd = &cobra.Command{
	Use:   "demo [field]",
	Short: "Materialize demo call recordings for a field",
	Long: `Looks up the demo scripts for a field (fitness, cooking, coding,
finance), flattens them into timed recordings, and prints them. With --save
the recordings are appended to the store like real finished calls.

Run without a field to list the available fields.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoSave, "save", false, "Append the recordings to the store")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Available fields: %s\n", strings.Join(demo.Fields(), ", "))
		return nil
	}

	field := args[0]
	scripts := demo.ScriptsForField(field)
	recordings := demo.MaterializeBatch(scripts, time.Now)

	for _, rec := range recordings {
		fmt.Printf("%s  persona=%s  entries=%d  duration=%s  created=%s\n",
			rec.Title, rec.PersonaID, len(rec.Transcript),
			(time.Duration(rec.DurationMs) * time.Millisecond).String(),
			rec.CreatedAt.Format(time.RFC3339))
	}

	if !demoSave {
		return nil
	}

	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	for _, rec := range recordings {
		if err := s.AppendRecording(rec); err != nil {
			return fmt.Errorf("failed to save recording %s: %w", rec.ID, err)
		}
	}
	fmt.Printf("Saved %d recordings\n", len(recordings))
	return nil
}
