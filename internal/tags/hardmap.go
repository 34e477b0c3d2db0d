package tags

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// HardMapConfidence is the fixed confidence recorded for hard-map hits.
const HardMapConfidence = 0.99

//go:embed hardmap.yaml
var defaultHardmapData []byte

// hardmapFile is the on-disk shape of the synonym table.
type hardmapFile struct {
	Groups map[string][]string `yaml:"groups"`
}

// HardSynonymTable maps normalized synonym keys onto canonical labels.
// The reverse index is built once per load; lookups are lock-protected so
// the table can be reloaded while the service is running.
type HardSynonymTable struct {
	mu     sync.RWMutex
	path   string // empty when the embedded default table is in use
	index  map[string]string
	groups map[string][]string
}

// LoadHardSynonyms builds a HardSynonymTable from the YAML file at path,
// or from the embedded default table when path is empty.
func LoadHardSynonyms(path string) (*HardSynonymTable, error) {
	t := &HardSynonymTable{path: path}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *HardSynonymTable) reload() error {
	data := defaultHardmapData
	if t.path != "" {
		fileData, err := os.ReadFile(t.path)
		if err != nil {
			return fmt.Errorf("read hardmap file: %w", err)
		}
		data = fileData
	}

	var file hardmapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse hardmap yaml: %w", err)
	}
	if len(file.Groups) == 0 {
		return fmt.Errorf("hardmap has no groups")
	}

	index := make(map[string]string)
	for label, synonyms := range file.Groups {
		// The canonical label resolves to itself.
		index[NormalizeKey(label)] = label
		for _, raw := range synonyms {
			index[NormalizeKey(raw)] = label
		}
	}

	t.mu.Lock()
	t.index = index
	t.groups = file.Groups
	t.mu.Unlock()
	return nil
}

// Resolve returns the canonical label for a raw tag, or false when the
// tag is not in the table.
func (t *HardSynonymTable) Resolve(raw string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	label, ok := t.index[NormalizeKey(raw)]
	return label, ok
}

// Groups returns a copy of the loaded synonym groups.
func (t *HardSynonymTable) Groups() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string][]string, len(t.groups))
	for label, synonyms := range t.groups {
		out[label] = append([]string(nil), synonyms...)
	}
	return out
}

// Watch reloads the table whenever the backing file changes, until ctx is
// cancelled. No-op when the embedded default table is in use.
func (t *HardSynonymTable) Watch(ctx context.Context) error {
	if t.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create hardmap watcher: %w", err)
	}

	// Watch the directory: editors replace files rather than writing in
	// place, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch hardmap dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(t.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := t.reload(); err != nil {
					log.Warn().Err(err).Str("path", t.path).Msg("Hardmap reload failed, keeping previous table")
					continue
				}
				log.Info().Str("path", t.path).Msg("Hardmap reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Hardmap watcher error")
			}
		}
	}()

	return nil
}
