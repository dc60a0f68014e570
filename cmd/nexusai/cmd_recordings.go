package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nexusai/internal/store"
)

// recordingsCmd manages stored call recordings.
var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "List and delete stored call recordings",
}

var recordingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings, newest first",
	RunE:  listRecordings,
}

var recordingsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a recording by id",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteRecording,
}

func init() {
	recordingsCmd.AddCommand(recordingsListCmd)
	recordingsCmd.AddCommand(recordingsDeleteCmd)
}

func listRecordings(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	recordings, err := s.ListRecordings()
	if err != nil {
		return err
	}
	if len(recordings) == 0 {
		fmt.Println("No recordings.")
		return nil
	}

	for _, rec := range recordings {
		fmt.Printf("%s  %s  persona=%s  duration=%s  %s\n",
			rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.PersonaID,
			(time.Duration(rec.DurationMs) * time.Millisecond).String(), rec.Title)
	}
	return nil
}

func deleteRecording(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	if err := s.DeleteRecording(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
