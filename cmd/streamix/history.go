package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/config"
	"github.com/streamix/streamix/internal/history"
	"github.com/streamix/streamix/internal/search"
	"github.com/streamix/streamix/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage watch history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched videos, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(func(cfg *config.Config, store *storage.Store, index *search.Index) error {
			entries := watchStore(cfg, store).Load()
			if len(entries) == 0 {
				fmt.Println("Watch history is empty.")
				return nil
			}
			for i, e := range entries {
				fmt.Printf("%2d. %s — %s (%s)\n", i+1, e.Value.Title, e.Value.ChannelTitle, e.Key)
			}
			return nil
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over watched videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withStores(func(cfg *config.Config, store *storage.Store, index *search.Index) error {
			results, err := index.Search(query, 20)
			if err != nil {
				return fmt.Errorf("searching history: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for i, r := range results {
				fmt.Printf("%2d. %s — %s (%.2f)\n", i+1, r.Video.Title, r.Video.ChannelTitle, r.Score)
			}
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(func(cfg *config.Config, store *storage.Store, index *search.Index) error {
			if err := watchStore(cfg, store).Clear(); err != nil {
				return fmt.Errorf("clearing watch history: %w", err)
			}
			if err := index.Rebuild(nil); err != nil {
				return fmt.Errorf("resetting search index: %w", err)
			}
			fmt.Println("Watch history cleared.")
			return nil
		})
	},
}

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Inspect and manage saved search terms",
}

var searchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved search terms, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(func(cfg *config.Config, store *storage.Store, index *search.Index) error {
			entries := searchTermStore(cfg, store).Load()
			if len(entries) == 0 {
				fmt.Println("No saved searches.")
				return nil
			}
			for i, e := range entries {
				fmt.Printf("%2d. %s\n", i+1, e.Value)
			}
			return nil
		})
	},
}

var searchesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved search terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(func(cfg *config.Config, store *storage.Store, index *search.Index) error {
			if err := searchTermStore(cfg, store).Clear(); err != nil {
				return fmt.Errorf("clearing saved searches: %w", err)
			}
			fmt.Println("Saved searches cleared.")
			return nil
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyClearCmd)
	searchesCmd.AddCommand(searchesListCmd, searchesClearCmd)
}

func watchStore(cfg *config.Config, store *storage.Store) *history.Store[catalog.Video] {
	return history.NewStore[catalog.Video](store, history.WatchHistoryKey, cfg.History.WatchCapacity)
}

func searchTermStore(cfg *config.Config, store *storage.Store) *history.Store[string] {
	return history.NewStore[string](store, history.SearchHistoryKey, cfg.History.SearchCapacity)
}

// withStores loads config, opens the database and index, runs fn and
// closes everything afterwards.
func withStores(fn func(*config.Config, *storage.Store, *search.Index) error) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, index, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	defer index.Close()

	return fn(cfg, store, index)
}
