package xsd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher invalidates a resolver's cached order tables when schema
// definition files change on disk. The resolver rebuilds lazily on the
// next lookup; an explicit reload is the only cache invalidation path.
type Watcher struct {
	resolver *Resolver
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	byDir    map[string]string // watched dir -> family ID
	stopCh   chan struct{}
}

// NewWatcher creates a watcher over the resolver's family directories.
// root is the on-disk path the resolver's filesystem was rooted at.
func NewWatcher(resolver *Resolver, root string, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		resolver: resolver,
		logger:   logger.With().Str("component", "schema-watcher").Logger(),
		watcher:  fw,
		byDir:    make(map[string]string),
		stopCh:   make(chan struct{}),
	}
	for _, fam := range resolver.Families() {
		dir := filepath.Join(root, filepath.FromSlash(fam.Dir))
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch family dir %s: %w", dir, err)
		}
		w.byDir[dir] = fam.ID
	}
	go w.loop()
	w.logger.Info().Int("families", len(w.byDir)).Msg("watching schema directories")
	return w, nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".xsd") {
				continue
			}
			// Write or create (atomic save = create) of any definition
			// file invalidates the whole family: imports cross files.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			famID, ok := w.byDir[filepath.Dir(event.Name)]
			if !ok {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Str("family", famID).
				Msg("schema file changed")
			w.resolver.InvalidateFamily(famID)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("schema watcher error")

		case <-w.stopCh:
			return
		}
	}
}
