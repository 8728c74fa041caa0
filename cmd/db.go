package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/last-obs/lastvis/internal/bridge"
)

var dbURI string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the persisted event database through the writer bridge",
}

var dbEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the simulated-truth / reconstructed-event join",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBridge()
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }() // safe to ignore
		f, err := b.EventFrame()
		if err != nil {
			return err
		}
		printFrame(f)
		return nil
	},
}

var dbTelescopesCmd = &cobra.Command{
	Use:   "telescopes",
	Short: "Print the telescope / simulated-truth join",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBridge()
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }() // safe to ignore
		f, err := b.TelescopeFrame()
		if err != nil {
			return err
		}
		printFrame(f)
		return nil
	},
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Truncate the persisted tables and drop the cached joins",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBridge()
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }() // safe to ignore
		return b.Clear()
	},
}

// openBridge resolves the native writer capability and constructs the
// bridge. Without the capability the bridge is unavailable outright.
func openBridge() (*bridge.Bridge, error) {
	w, err := bridge.NativeWriter()
	if err != nil {
		return nil, err
	}
	return bridge.New(dbURI, w, false)
}

func printFrame(f *bridge.Frame) {
	fmt.Println(strings.Join(f.Columns, "\t"))
	for _, row := range f.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprintf("%v", c)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("(%d rows)\n", f.Len())
}

func init() {
	dbCmd.PersistentFlags().StringVar(&dbURI, "db", "", "connection URI, duckdb://<path>")
	dbCmd.AddCommand(dbEventsCmd, dbTelescopesCmd, dbClearCmd)
	rootCmd.AddCommand(dbCmd)
}
