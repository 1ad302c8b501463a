package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/errmsg"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/state"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the queue saved by the last run",
	RunE:  runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
}

// trackRow is one line of a track listing.
type trackRow struct {
	Title      string
	Artist     string
	Album      string
	Hits       int64
	LastPlayed time.Time
}

func runQueue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Nop()

	reg := newRegistry(ctx, cfg, logger)
	coll, err := scanCollection(ctx, cfg, reg, logger)
	if err != nil {
		return err
	}
	items, err := playqueue.ReadCommitted(cfg.GetQueueConfig().File, coll.FileByID, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpQueueLoad, err)
	}
	if len(items) == 0 {
		fmt.Println("The saved queue is empty.")
		return nil
	}

	st, err := state.OpenDefault()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpSessionLoad, err)
	}
	defer st.Close()

	rows := make([]trackRow, 0, len(items))
	for _, it := range items {
		h, err := st.Hits(ctx, it.File.ID)
		if err != nil {
			h = state.FileHits{FileID: it.File.ID}
		}
		rows = append(rows, newTrackRow(it.File, h))
	}
	renderTrackTable(os.Stdout, rows, time.Now())
	return nil
}

func newTrackRow(f *collection.File, h state.FileHits) trackRow {
	return trackRow{
		Title:      f.DisplayTitle(),
		Artist:     f.Artist,
		Album:      f.Album,
		Hits:       h.Hits,
		LastPlayed: h.LastPlayedAt,
	}
}

// renderTrackTable writes rows as a table, with play times relative to now.
func renderTrackTable(w io.Writer, rows []trackRow, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Plays", "Last played"})
	for i, r := range rows {
		t.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			r.Title,
			r.Artist,
			r.Album,
			humanize.Comma(r.Hits),
			lastPlayed(r.LastPlayed, now),
		})
	}
	t.Render()
}

func lastPlayed(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}
