package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/streamix/streamix/internal/config"
	"github.com/streamix/streamix/internal/debuglog"
	"github.com/streamix/streamix/internal/search"
	"github.com/streamix/streamix/internal/storage"
	"github.com/streamix/streamix/internal/tui"
	"github.com/streamix/streamix/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig string
	flagDB     string
	flagIndex  string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "streamix",
	Short: "Terminal video browser",
	Long:  "streamix browses a remote video catalog from the terminal with an endless feed, full-text search and watch history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", tui.AppName, Version)
		fmt.Println("Terminal video browser")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagIndex, "index", "", "Path to search index (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Skip startup banner")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(searchesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer debuglog.Close()

	// Log level follows config edits while the app runs.
	if err := config.Watch(flagConfig, func(updated *config.Config) {
		debuglog.SetLevel(debuglog.ParseLogLevel(updated.Log.Level))
	}); err != nil {
		debuglog.Warnf("config watch unavailable: %v", err)
	}

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	store, index, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	defer index.Close()

	app := tui.NewApp(store, index, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

// openStores resolves the database and index paths and opens both.
func openStores(cfg *config.Config) (*storage.Store, *search.Index, error) {
	ph := validation.NewPathHandler()

	dbPath := cfg.Database.Path
	if flagDB != "" {
		dbPath = flagDB
	}
	dbPath, err := ph.DBPath(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving database path: %w", err)
	}

	indexPath := cfg.Database.SearchIndex
	if flagIndex != "" {
		indexPath = flagIndex
	}
	indexPath, err = ph.IndexPath(indexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving index path: %w", err)
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	index, err := search.Open(indexPath)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("opening search index: %w", err)
	}

	return store, index, nil
}
