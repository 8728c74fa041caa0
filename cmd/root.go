package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/last-obs/lastvis/api"
)

var schemaPath string

var rootCmd = &cobra.Command{
	Use:          "lastvis",
	Short:        "Extract and visualize simulated Cherenkov telescope events",
	SilenceUsage: true,
}

// Execute runs the root command and propagates a forwarded exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "",
		"JSON schema file overriding the default table layout")
}

// loadSchema returns the default schema, overridden by --schema when set.
func loadSchema() (*api.Schema, error) {
	schema := api.Default()
	if schemaPath == "" {
		return schema, nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if err := json.Unmarshal(content, schema); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", schemaPath, err)
	}
	return schema, nil
}
