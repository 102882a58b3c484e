package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamix/streamix/internal/config"
	"github.com/streamix/streamix/internal/validation"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ph := validation.NewPathHandler()
		path, err := ph.ConfigPath(flagConfig)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the resolved configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		ph := validation.NewPathHandler()
		path, err := ph.ConfigPath(flagConfig)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGenerateCmd, configPathCmd)
}
