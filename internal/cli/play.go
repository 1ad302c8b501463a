package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/jukebox/internal/app"
	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/config"
	"github.com/llehouerou/jukebox/internal/errmsg"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/logging"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/state"
	"github.com/llehouerou/jukebox/internal/stderr"
	"github.com/llehouerou/jukebox/internal/worker"
)

const shutdownTimeout = 5 * time.Second

var playAppend bool

var playCmd = &cobra.Command{
	Use:   "play [paths...]",
	Short: "Start playing",
	Long: `Starts the jukebox. Given paths, files or directories of the collection,
replace the queue (or are appended with --append). Without paths the startup
mode of the config decides what plays.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playAppend, "append", "a", false, "append paths to the restored queue")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := cfg.GetLogConfig()
	logFile, err := logging.OpenFile(logCfg.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.Setup(logCfg.Level, logFile)

	capture, err := stderr.Start(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("stderr capture disabled")
	}
	defer capture.Stop()

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
	if err := st.LoadHits(ctx, coll.Files()); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpHitsLoad, err))
	}

	sess, err := st.GetSession(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSessionLoad, err))
	}

	p := player.New()
	if vol, err := st.GetVolume(ctx); err == nil && vol != nil {
		p.SetVolume(vol.Volume)
		p.SetMuted(vol.Muted)
	}

	bus := events.NewBus()
	defer bus.Close()

	qcfg := cfg.GetQueueConfig()
	pool := worker.New(qcfg.Workers, logger)
	prompter := app.NewPrompter()

	mode := cfg.GetStartupMode()
	modes := modesFromConfig(cfg)
	opts := []playqueue.Option{
		playqueue.WithPrompter(prompter),
		playqueue.WithMounter(reg),
		playqueue.WithRecorder(st),
		playqueue.WithLogger(logger.With().Str("component", "queue").Logger()),
		playqueue.WithPool(pool),
	}
	if pos, ok := resumePosition(mode, sess); ok && len(args) == 0 {
		modes.ResumePosition = true
		opts = append(opts, playqueue.WithResumePosition(pos))
	}
	q := playqueue.New(coll, p, bus, modes, opts...)

	in := startIntegrations(ctx, cfg, q, p, bus, reg, coll, st, logger)
	defer in.Stop()

	if err := queueInitial(q, coll, args, mode, sess, qcfg.File, logger); err != nil {
		return err
	}

	model := app.New(q, p,
		app.WithSubscription(bus.Subscribe()),
		app.WithPrompter(prompter),
		app.WithLogger(logger),
	)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	prompter.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error().Err(err).Msg("terminal interface failed")
	}

	// Checkpoints must not race the final session writes.
	in.Stop()
	shutdown(q, p, st, pool, qcfg.File, logger)
	return nil
}

// queueInitial pushes the command line paths, or the startup selection.
// Pushes run on the worker pool so mount prompts reach the interface.
func queueInitial(
	q *playqueue.Queue,
	coll *collection.Collection,
	args []string,
	mode config.StartupMode,
	sess *state.Session,
	queueFile string,
	logger zerolog.Logger,
) error {
	if len(args) > 0 {
		items, err := itemsForPaths(coll, args)
		if err != nil {
			return err
		}
		if playAppend {
			restored, err := startupItems(coll, config.StartupLast, sess, queueFile, logger)
			if err != nil {
				logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
			}
			items = append(restored, items...)
		}
		return q.PushAsync(items, false)
	}

	items, err := startupItems(coll, mode, sess, queueFile, logger)
	if err != nil {
		logger.Warn().Err(err).Str("mode", string(mode)).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	return q.PushAsync(items, false)
}

// shutdown saves what the next run needs and stops playback.
func shutdown(q *playqueue.Queue, p *player.Player, st *state.Manager, pool *worker.Pool, queueFile string, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if f := q.CurrentFile(); f != nil && p.State().IsActive() {
		if err := st.SavePosition(ctx, f.ID, p.Position()); err != nil {
			logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSessionSave, err))
		}
	}
	if err := q.Commit(queueFile); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueSave, err))
	}
	if err := st.SaveVolume(ctx, p.Volume(), p.Muted()); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSessionSave, err))
	}
	q.Shutdown()
	if err := pool.Close(ctx); err != nil {
		logger.Warn().Err(err).Msg("worker pool did not drain")
	}
	logger.Info().Msg("jukebox stopped")
}
