package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/jukebox/internal/errmsg"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recently played tracks",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of tracks to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Nop()

	st, err := state.OpenDefault()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpSessionLoad, err)
	}
	defer st.Close()

	reg := newRegistry(ctx, cfg, logger)
	coll, err := scanCollection(ctx, cfg, reg, logger)
	if err != nil {
		return err
	}

	rows, err := historyRows(ctx, st, coll.FileByID, historyLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("Nothing played yet.")
		return nil
	}
	renderTrackTable(os.Stdout, rows, time.Now())
	return nil
}

// historyRows lists recent launches, newest first. Files gone from the
// collection are listed by ID.
func historyRows(ctx context.Context, st state.Interface, resolve playqueue.Resolver, limit int) ([]trackRow, error) {
	recent, err := st.RecentFiles(ctx, max(limit, 1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpHitsLoad, err)
	}
	rows := make([]trackRow, 0, len(recent))
	for _, h := range recent {
		if f, ok := resolve(h.FileID); ok {
			rows = append(rows, newTrackRow(f, h))
			continue
		}
		rows = append(rows, trackRow{Title: h.FileID, Hits: h.Hits, LastPlayed: h.LastPlayedAt})
	}
	return rows, nil
}
