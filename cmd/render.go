package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/last-obs/lastvis/internal/event"
	"github.com/last-obs/lastvis/internal/extract"
	"github.com/last-obs/lastvis/internal/render"
)

var (
	renderEventID int64
	renderBright  bool
	renderOutput  string
)

var renderCmd = &cobra.Command{
	Use:   "render [store.root]",
	Short: "Render the camera images of one event as a multi-panel figure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}

		x := extract.Load(args[0], schema)
		ix := event.NewIndex(x)
		r := render.New(x, ix)

		target := render.Target{Brightest: renderBright}
		if cmd.Flags().Changed("event") {
			target.EventID = event.Some(renderEventID)
		}

		img, id, err := r.Render(target)
		if errors.Is(err, render.ErrNoTarget) {
			fmt.Fprintln(os.Stderr, "no target event: pass --event or --brightest on a store with trigger data")
			return err
		}
		if err != nil {
			return err
		}

		out := renderOutput
		if out == "" {
			out = fmt.Sprintf("event_%d.png", id)
		}
		if err := render.SavePNG(img, out); err != nil {
			return err
		}
		fmt.Printf("Rendered event %d to %s.\n", id, out)
		return nil
	},
}

func init() {
	renderCmd.Flags().Int64Var(&renderEventID, "event", 0, "event id to render")
	renderCmd.Flags().BoolVar(&renderBright, "brightest", false, "render the event with the maximum total signal")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG path (default event_<id>.png)")
	rootCmd.AddCommand(renderCmd)
}
