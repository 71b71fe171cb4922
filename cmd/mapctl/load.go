package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alfredjeanlab/marketmaps/internal/client"
	"github.com/alfredjeanlab/marketmaps/internal/ui"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:     "load <id>",
	Short:   "Print a stored map, or write it to a file",
	GroupID: "maps",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		output, _ := cmd.Flags().GetString("output")

		data, err := mapsClient.LoadMap(context.Background(), id)
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("map %q not found", id)
		}
		if err != nil {
			return fmt.Errorf("loading map: %w", err)
		}

		if output != "" && output != "-" {
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s\n",
				ui.RenderID(id), ui.RenderMuted("->"), output)
			return nil
		}

		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		// Keep the shell prompt on its own line for interactive use.
		if f, ok := out.(*os.File); ok && ui.IsTerminal(f) && len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringP("output", "o", "", "write the map to this file instead of stdout")
}
