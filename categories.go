package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

//go:embed categories/*.json
var embeddedCategories embed.FS

// CategoryStore maps category names to their ordered topic-item lists.
// It is loaded once before the server accepts traffic and read-only
// afterwards; a load failure aborts startup.
type CategoryStore struct {
	items map[string][]string
}

// Datasets encode items either as plain strings or as {name} records.
type topicRecord struct {
	Name string `json:"name"`
}

// loadCategories reads the embedded datasets, then any *.json files in
// cfg.categories, which override embedded categories of the same name.
func loadCategories(cfg *Config) (*CategoryStore, error) {
	store := &CategoryStore{items: make(map[string][]string)}

	sub, err := fs.Sub(embeddedCategories, "categories")
	if err != nil {
		return nil, err
	}
	if err := store.loadDir(sub); err != nil {
		return nil, err
	}

	if cfg.categories != "" {
		if err := store.loadDir(os.DirFS(cfg.categories)); err != nil {
			return nil, fmt.Errorf("loading categories from %s: %w", cfg.categories, err)
		}
	}

	if len(store.items) == 0 {
		return nil, errors.New("no categories configured")
	}
	if !store.has(cfg.defaultCategory) {
		return nil, fmt.Errorf("default category %q not found", cfg.defaultCategory)
	}

	return store, nil
}

func (s *CategoryStore) loadDir(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		items, err := parseCategory(data)
		if err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}

		s.items[name] = items
	}

	return nil
}

func parseCategory(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(raw))

	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil && name != "" {
			items = append(items, name)

			continue
		}

		var rec topicRecord
		if err := json.Unmarshal(entry, &rec); err != nil || rec.Name == "" {
			return nil, fmt.Errorf("invalid entry %s", entry)
		}
		items = append(items, rec.Name)
	}

	if len(items) == 0 {
		return nil, errors.New("empty dataset")
	}

	return items, nil
}

func (s *CategoryStore) has(name string) bool {
	_, ok := s.items[name]

	return ok
}

// list returns the items for a category, or nil for unknown names.
func (s *CategoryStore) list(name string) []string {
	return s.items[name]
}

func (s *CategoryStore) names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (s *CategoryStore) totalItems() int {
	total := 0
	for _, items := range s.items {
		total += len(items)
	}

	return total
}
