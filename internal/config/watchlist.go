package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stocktracker/internal/models"
)

// WatchEntry is one symbol to keep warm in the cache, with the history
// ranges worth pre-fetching for it.
type WatchEntry struct {
	Symbol string   `yaml:"symbol"`
	Ranges []string `yaml:"ranges"`
}

type watchlistFile struct {
	Symbols []WatchEntry `yaml:"symbols"`
}

// LoadWatchlist reads the YAML watchlist file. A missing path returns an
// empty list, not an error, so the refresher simply stays idle.
func LoadWatchlist(path string) ([]WatchEntry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	var file watchlistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}

	entries := make([]WatchEntry, 0, len(file.Symbols))
	for _, entry := range file.Symbols {
		entry.Symbol = strings.ToUpper(strings.TrimSpace(entry.Symbol))
		if entry.Symbol == "" {
			continue
		}
		if len(entry.Ranges) == 0 {
			entry.Ranges = []string{models.DefaultRange}
		}
		for _, rng := range entry.Ranges {
			if !models.ValidRange(rng) {
				return nil, fmt.Errorf("watchlist: %s has invalid range %q", entry.Symbol, rng)
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
