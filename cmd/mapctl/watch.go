package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/alfredjeanlab/marketmaps/internal/events"
	"github.com/alfredjeanlab/marketmaps/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream map save events from NATS",
	GroupID: "maps",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("MAPS_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL: pass --nats or set MAPS_NATS_URL")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		return watchEvents(ctx, sub, cmd.OutOrStdout())
	},
}

// watchEvents prints every map event until ctx is done or the subscription ends.
func watchEvents(ctx context.Context, sub events.Subscriber, out io.Writer) error {
	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatEvent(msg))
		}
	}
}

// formatEvent renders one raw event payload. Undecodable payloads are
// printed as-is.
func formatEvent(msg []byte) string {
	if jsonOutput {
		return string(msg)
	}
	var e events.MapSaved
	if err := json.Unmarshal(msg, &e); err != nil || e.ID == "" {
		return string(msg)
	}
	source := "filename"
	if e.Generated {
		source = "generated"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		ui.RenderMuted(ui.FormatTime(e.UpdatedAt)),
		ui.RenderID(e.ID),
		ui.FormatSize(e.Size),
		ui.RenderMuted(source))
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL (defaults to MAPS_NATS_URL or the active remote)")
}
