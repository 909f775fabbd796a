package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gugudan/internal/config"
	"github.com/abhisek/gugudan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gugudan",
	Short: "Times-table flash cards you answer out loud",
	Long: "Gugudan deals a board of multiplication cards. Each card flips, a countdown runs,\n" +
		"and you say (or type) the answer before time is up.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", `Event log database: a file path, "default" for the XDG data dir, or ":memory:" (overrides GUGUDAN_DB)`)
	rootCmd.Flags().Int("level", 0, "Starting level (overrides GUGUDAN_LEVEL)")
	rootCmd.Flags().Int("cards", 0, "Cards per board (overrides GUGUDAN_CARDS)")
	rootCmd.Flags().Bool("typed", false, "Answer by typing only; never open the microphone")

	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if f := cmd.Flags().Lookup("level"); f != nil && f.Changed {
		cfg.StartLevel, _ = cmd.Flags().GetInt("level")
	}
	if f := cmd.Flags().Lookup("cards"); f != nil && f.Changed {
		cfg.Cards, _ = cmd.Flags().GetInt("cards")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath maps the configured DSN to something store.Open accepts.
func resolveDBPath(dsn string) (string, error) {
	if dsn == "default" {
		return store.DefaultFilePath()
	}
	return dsn, nil
}

// openStore opens the event log named by --db or the configuration.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dsn, err := resolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
