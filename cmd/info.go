package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/last-obs/lastvis/internal/event"
	"github.com/last-obs/lastvis/internal/extract"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info [store.root]",
	Short: "Report event id ranges and min/max energy and signal events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}
		x := extract.Load(args[0], schema)
		report := event.Summarize(x)

		if infoJSON {
			fmt.Println(oj.JSON(report.Decompose(), 2))
			return nil
		}
		fmt.Print(report.String())
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(infoCmd)
}
