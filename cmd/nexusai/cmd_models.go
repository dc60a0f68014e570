package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nexusai/internal/store"
)

// modelsCmd manages the mock model-picker state.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage the mock model picker (pinned and downloaded models)",
}

var modelsPinCmd = &cobra.Command{
	Use:   "pin [name]",
	Short: "Pin a model, or show the pinned model when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  pinModel,
}

var modelsDownloadCmd = &cobra.Command{
	Use:   "download [name]",
	Short: "Mark a model as downloaded, or list downloaded models",
	Args:  cobra.MaximumNArgs(1),
	RunE:  downloadModel,
}

func init() {
	modelsCmd.AddCommand(modelsPinCmd)
	modelsCmd.AddCommand(modelsDownloadCmd)
}

func pinModel(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	if len(args) == 0 {
		name, err := s.GetPinnedModel()
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Println("No model pinned.")
			return nil
		}
		fmt.Println(name)
		return nil
	}

	if err := s.SetPinnedModel(args[0]); err != nil {
		return err
	}
	fmt.Printf("Pinned %s\n", args[0])
	return nil
}

func downloadModel(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	if len(args) == 0 {
		models, err := s.ListDownloadedModels()
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("No downloaded models.")
			return nil
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return nil
	}

	if err := s.AddDownloadedModel(args[0]); err != nil {
		return err
	}
	fmt.Printf("Downloaded %s\n", args[0])
	return nil
}
