package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/logging"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the collection and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := logging.Setup(cfg.GetLogConfig().Level, os.Stderr)
		reg := newRegistry(ctx, cfg, logger)

		start := time.Now()
		coll, err := scanCollection(ctx, cfg, reg, logger)
		if err != nil {
			return err
		}
		writeScanSummary(os.Stdout, coll, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func writeScanSummary(w io.Writer, coll *collection.Collection, took time.Duration) {
	size := coll.TotalSize()
	if size < 0 {
		size = 0
	}
	fmt.Fprintf(w, "%s files in %s directories, %s\n",
		humanize.Comma(int64(coll.Len())),
		humanize.Comma(int64(coll.DirectoryCount())),
		humanize.Bytes(uint64(size)), //nolint:gosec // size is non-negative
	)
	fmt.Fprintf(w, "scanned in %s\n", took.Round(time.Millisecond))
}
