package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/app"
	"github.com/llehouerou/tempo/internal/binder"
	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/icons"
	"github.com/llehouerou/tempo/internal/logging"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/notify"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/source"
	"github.com/llehouerou/tempo/internal/stderr"
)

func newPlayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play [id|path|url ...]",
		Short: "Start the player with the given tracks queued",
		Long: `Start the player. Each argument is a catalog track id, an audio file,
a directory of audio files or an http(s) URL. Without arguments the
whole catalog is queued.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, o, args)
		},
	}
}

func runPlay(cmd *cobra.Command, o *options, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	cfg := o.cfg

	logPath, err := cfg.LogFile()
	if err != nil {
		return errmsg.Error(errmsg.OpLogSetup, "", err)
	}
	log, logCloser, err := logging.Setup(logPath, cfg.LogLevel())
	if err != nil {
		return errmsg.Error(errmsg.OpLogSetup, logPath, err)
	}
	defer logCloser.Close()

	catPath, err := cfg.CatalogPath()
	if err != nil {
		return errmsg.Error(errmsg.OpCatalogOpen, "", err)
	}
	cat, err := source.OpenCatalog(catPath)
	if err != nil {
		return errmsg.Error(errmsg.OpCatalogOpen, catPath, err)
	}
	defer cat.Close()

	tracks, err := buildQueue(ctx, cat, args)
	if err != nil {
		return errmsg.Error(errmsg.OpQueueBuild, "", err)
	}
	if len(tracks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to play. Add tracks with 'tempo catalog import <dir>'.")
		return nil
	}

	pb := cfg.GetPlaybackConfig()
	policy, err := binder.ParseStuckLoadPolicy(pb.StuckLoad)
	if err != nil {
		return errmsg.Error(errmsg.OpPlaybackStart, "", err)
	}
	rc := cfg.GetResolverConfig()
	icons.Init(cfg.Icons())

	// Audio backends print to fd 2; keep that off the UI.
	capture, err := stderr.Start()
	if err != nil {
		log.Warn("stderr capture unavailable", "error", err)
	} else {
		capture.Forward(log)
		defer capture.Stop()
	}

	session := playback.New(
		playback.WithVolume(*pb.Volume),
		playback.WithRestartThreshold(pb.RestartThreshold),
	)
	defer session.Close()

	element := player.New(player.WithTimeUpdateInterval(pb.TimeUpdateInterval))
	defer element.Close()

	resolver := source.NewCached(source.Chain{cat, source.Direct{}}, rc.CacheSize, rc.CacheTTL)
	b := binder.New(session, element, resolver,
		binder.WithLogger(log.With("component", "binder")),
		binder.WithLoadTimeout(pb.LoadTimeout),
		binder.WithStuckLoadPolicy(policy),
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := b.Run(ctx); err != nil {
			log.Error("binder stopped", "error", err)
		}
	}()
	defer wg.Wait()
	defer cancel()

	if cfg.MPRISEnabled() {
		if closer := startMPRIS(session, log); closer != nil {
			defer closer.Close()
		}
	}

	if cfg.NotificationsEnabled() {
		startNotifications(ctx, &wg, session, log)
	}

	session.Enqueue(tracks...)
	log.Info("playback started", "tracks", len(tracks))

	model := app.New(session, app.WithLogger(log.With("component", "ui")))
	defer model.Close()
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run(); err != nil {
		return errmsg.Error(errmsg.OpPlaybackStart, "", err)
	}
	return nil
}

func startNotifications(ctx context.Context, wg *sync.WaitGroup, s *playback.Session, log *slog.Logger) {
	n, err := notify.New()
	if err != nil {
		log.Warn("notifications unavailable", "error", err)
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		notify.Watch(ctx, s, n, log.With("component", "notify"))
	}()
}

func startMPRIS(s *playback.Session, log *slog.Logger) io.Closer {
	a, err := mpris.New(s, log.With("component", "mpris"))
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpMediaKeys, err))
		return nil
	}
	return a
}
