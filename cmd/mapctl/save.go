package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alfredjeanlab/marketmaps/internal/mapid"
	"github.com/alfredjeanlab/marketmaps/internal/ui"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save [file|-]",
	Short: "Save a map and print the ID it was stored under",
	Long: `Save a map payload to the server.

The payload is read from the given file, or from stdin when the argument is
"-" or omitted. A JSON payload with a top-level "filename" string is stored
under that name; anything else gets a generated ID.`,
	GroupID: "maps",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}

		data, err := readPayload(cmd, path)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("refusing to save an empty map")
		}

		id, err := mapsClient.SaveMap(context.Background(), data)
		if err != nil {
			return fmt.Errorf("saving map: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			_, named := mapid.FromPayload(string(data))
			return json.NewEncoder(out).Encode(map[string]any{
				"id":        id,
				"size":      len(data),
				"generated": !named,
			})
		}
		fmt.Fprintf(out, "%s %s\n", ui.RenderOK("saved"), ui.RenderID(id))
		return nil
	},
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
