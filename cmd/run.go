package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/gugudan/internal/app"
	"github.com/abhisek/gugudan/internal/config"
	"github.com/abhisek/gugudan/internal/game"
	"github.com/abhisek/gugudan/internal/llm"
	"github.com/abhisek/gugudan/internal/logger"
	"github.com/abhisek/gugudan/internal/speech"
	"github.com/abhisek/gugudan/internal/store"
)

// runApp loads configuration, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("gugudan needs an interactive terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	dsn, err := resolveDBPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	typed, _ := cmd.Flags().GetBool("typed")
	var listener speech.Listener
	if !typed {
		listener = buildListener(cmd, cfg, eventRepo, log)
	}

	g := game.New(game.Options{
		Cards:       cfg.Cards,
		Level:       cfg.StartLevel,
		RevealDelay: cfg.RevealDelay,
		EventRepo:   eventRepo,
		Logger:      log,
	}, time.Now())

	log.Info().
		Str("db", dsn).
		Int("cards", cfg.Cards).
		Int("level", cfg.StartLevel).
		Bool("microphone", listener != nil).
		Msg("starting")

	return app.Run(app.Options{
		Game:         g,
		Listener:     listener,
		TickInterval: cfg.TickInterval,
		Logger:       log,
	})
}

// buildListener wires the recorder, transcriber and optional number-word
// normalizer. It returns nil when speech is not configured, leaving typed
// answers as the only input.
func buildListener(cmd *cobra.Command, cfg *config.Config, eventRepo store.EventRepo, log zerolog.Logger) speech.Listener {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	llmCfg := llm.ConfigFromEnv()
	if llmCfg.Transcriber == "" && llmCfg.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			llmCfg = discovered
		}
	}
	if llmCfg.Transcriber == "" {
		fmt.Fprintln(stderr, "Speech provider not configured; answers are typed.")
		return nil
	}
	if err := llmCfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "Speech provider not configured:", err)
		return nil
	}

	rec, err := speech.NewCommandRecorder(cfg.RecordCommand, cfg.RecordSeconds)
	if err != nil {
		fmt.Fprintln(stderr, "Microphone unavailable:", err)
		return nil
	}
	tr, err := llm.NewTranscriber(ctx, llmCfg, eventRepo, log)
	if err != nil {
		fmt.Fprintln(stderr, "Speech provider unavailable:", err)
		return nil
	}

	opts := []speech.Option{
		speech.WithLanguage(cfg.Language),
		speech.WithLogger(log),
	}
	if cfg.NormalizeNumbers && llmCfg.Provider != "" {
		provider, err := llm.NewProvider(ctx, llmCfg, eventRepo, log)
		if err != nil {
			fmt.Fprintln(stderr, "Number normalizer unavailable:", err)
		} else {
			opts = append(opts, speech.WithNormalizer(speech.NewLLMNormalizer(provider)))
		}
	}

	l := speech.NewListener(rec, tr, opts...)
	log.Info().
		Str("speech_provider", llmCfg.Transcriber).
		Strs("record", rec.Args(0)).
		Bool("normalize", l.Normalizes()).
		Msg("microphone enabled")
	return l
}
