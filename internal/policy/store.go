package policy

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the active configuration for long-running surfaces and
// supports hot reload. Reads are cheap; reload swaps the whole config.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
	hash string
}

// NewStore loads the configuration at path and returns a Store around it.
func NewStore(path string) (*Store, error) {
	cfg, hash, err := LoadConfigWithHash(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg, hash: hash}, nil
}

// Config returns the active configuration.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Hash returns the hash of the active configuration file.
func (s *Store) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hash
}

// PolicyFor resolves the effective policy for an agent from the active
// configuration.
func (s *Store) PolicyFor(agentID string) RiskPolicy {
	return s.Config().PolicyFor(agentID)
}

// Reload re-reads the configuration file and swaps it in atomically.
// A parse failure leaves the previous configuration active.
func (s *Store) Reload() error {
	cfg, hash, err := LoadConfigWithHash(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.hash = hash
	s.mu.Unlock()
	return nil
}

// Watch watches the policy file for changes and reloads on write/create.
// Blocks until ctx is cancelled. Reload failures are reported to stderr and
// the previous configuration stays active.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if s.path != "" {
		if _, err := os.Stat(s.path); err == nil {
			if err := watcher.Add(s.path); err != nil {
				return fmt.Errorf("failed to watch %q: %w", s.path, err)
			}
		}
	}

	// Debounce: wait 500ms after last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.Reload(); err != nil {
						fmt.Fprintf(os.Stderr, "hot-reload failed: %v\n", err)
					} else {
						fmt.Fprintf(os.Stderr, "hot-reload: policy reloaded\n")
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "file watcher error: %v\n", err)
		}
	}
}
