// Package service wraps a directory.Directory behind a reader/writer
// lock, adapting the concurrent-access lifecycle pattern of a TTL cache
// to a long-lived in-memory graph that many callers read concurrently
// and occasionally mutate.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/reqconfig"
)

// State is the concurrency-safe handle a CLI command or MCP tool
// operates through. Reads take the shared lock; mutations take the
// exclusive lock and persist to disk before it is released.
type State struct {
	mu  sync.RWMutex
	dir *directory.Directory
}

// Open loads the requirements root and wraps it in a State.
func Open(ctx context.Context, root string) (*State, error) {
	dir, err := directory.Load(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("service: open %s: %w", root, err)
	}
	return &State{dir: dir}, nil
}

// Read runs fn with a shared lock held, for operations that only
// inspect the graph.
func (s *State) Read(fn func(d *directory.Directory) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.dir)
}

// Write runs fn with the exclusive lock held, then flushes every dirty
// file before the lock is released, so no later reader can observe an
// on-disk state behind the in-memory graph.
func (s *State) Write(fn func(d *directory.Directory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.dir); err != nil {
		return err
	}
	return s.dir.Flush()
}

// MutateConfig runs fn against a copy of the current configuration,
// persists the result, and reloads the Directory from disk — all under
// one exclusive lock — so that config changes which affect how files
// are parsed or named (allowed kinds, layout mode, digit width) can
// never leave the in-memory graph out of sync with what's on disk.
func (s *State) MutateConfig(ctx context.Context, fn func(cfg *reqconfig.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dir.Flush(); err != nil {
		return fmt.Errorf("service: flush before config change: %w", err)
	}
	cfg := s.dir.Config()
	fn(&cfg)
	if err := s.dir.SaveConfig(cfg); err != nil {
		return fmt.Errorf("service: save config: %w", err)
	}

	dir, err := directory.Load(ctx, s.dir.Root())
	if err != nil {
		return fmt.Errorf("service: reload after config change: %w", err)
	}
	s.dir = dir
	return nil
}

// Reload discards the in-memory graph and re-reads the requirements
// root from disk, picking up any out-of-band edits (including to
// .req/config.toml).
func (s *State) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := directory.Load(ctx, s.dir.Root())
	if err != nil {
		return fmt.Errorf("service: reload: %w", err)
	}
	s.dir = dir
	return nil
}

// Root returns the requirements root path. It holds the shared lock while
// reading, because a reload swaps the underlying Directory.
func (s *State) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Root()
}
