// SPDX-License-Identifier: EPL-2.0

// Command audmix renders pick lists into a WAV file or plays them live.
//
//	audmix -config audmix.yaml -picks picks.yaml -out mix.wav
//	audmix -config audmix.yaml -picks picks.yaml -play
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/cache"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/internal/playback"
	"github.com/ik5/audmix/mixer"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	cfgPath := flag.String("config", "audmix.yaml", "settings file")
	picksPath := flag.String("picks", "picks.yaml", "pick list file")
	outPath := flag.String("out", "mix.wav", "output WAV file")
	play := flag.Bool("play", false, "play on the default audio device instead of writing a file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := cfg.Logging.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	segments, err := config.LoadPicks(*picksPath)
	if err != nil {
		return fmt.Errorf("load picks: %w", err)
	}

	mixCfg, err := cfg.MixerConfig()
	if err != nil {
		return fmt.Errorf("mixer config: %w", err)
	}

	store := cache.New(
		cache.WithLogger(logger),
		cache.WithHTTPClient(&http.Client{Timeout: cfg.Cache.HTTPTimeout()}),
	)
	engine, err := mixer.New(mixCfg, store,
		mixer.WithLogger(logger),
		mixer.WithPipeSize(cfg.PipeBytes),
	)
	if err != nil {
		return fmt.Errorf("create mixer: %w", err)
	}

	actives := make([][]mixer.ActiveAudio, len(segments))
	for i, seg := range segments {
		actives[i] = seg.Actives()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("rendering",
		slog.Int("segments", len(segments)),
		slog.Float64("segmentSeconds", mixCfg.TotalSeconds),
		slog.String("format", engine.Format().String()),
	)

	var seconds float64
	if *play {
		seconds, err = playLive(ctx, engine, actives, cfg, logger)
	} else {
		seconds, err = writeFile(ctx, engine, actives, *outPath)
	}
	if err != nil {
		return err
	}

	logger.Info("done", slog.Float64("seconds", seconds), slog.Int("cachedSources", store.Len()))
	return nil
}

func writeFile(ctx context.Context, engine *mixer.Engine, actives [][]mixer.ActiveAudio, path string) (float64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	seconds, err := audmix.RenderToWAV(ctx, engine, actives, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return seconds, err
}

func playLive(ctx context.Context, engine *mixer.Engine, actives [][]mixer.ActiveAudio, cfg *config.File, logger *slog.Logger) (float64, error) {
	pr, pw := io.Pipe()

	player, err := playback.New(cfg.Output, pr, logger)
	if err != nil {
		return 0, fmt.Errorf("open player: %w", err)
	}
	defer player.Close()

	g, gctx := errgroup.WithContext(ctx)

	var seconds float64
	g.Go(func() error {
		var err error
		seconds, err = audmix.Render(gctx, engine, actives, pw)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		err := player.Play(gctx)
		// Stop the renderer if playback ended early.
		pr.CloseWithError(err)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	return seconds, err
}
