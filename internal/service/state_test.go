package service

import (
	"context"
	"sync"
	"testing"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/reqconfig"
)

func TestOpenAndRead(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var count int
	err = s.Read(func(d *directory.Directory) error {
		count = len(d.List())
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty root to have 0 requirements, got %d", count)
	}
}

func TestWriteMutatesAndPersists(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	err = s.Write(func(d *directory.Directory) error {
		_, err := d.AddRequirement(nil, "REQ", "a requirement", "", nil)
		return err
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	var count int
	if err := s.Read(func(d *directory.Directory) error {
		count = len(d.List())
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 requirement after write, got %d", count)
	}
}

func TestReloadPicksUpOutOfBandEdits(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := s.Write(func(d *directory.Directory) error {
		_, err := d.AddRequirement(nil, "REQ", "a requirement", "", nil)
		return err
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	var count int
	if err := s.Read(func(d *directory.Directory) error {
		count = len(d.List())
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected reload to still find 1 requirement, got %d", count)
	}
}

func TestMutateConfigPersistsAndReloads(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := s.MutateConfig(context.Background(), func(cfg *reqconfig.Config) {
		cfg.AddKind("USR")
		cfg.SetKindDescription("USR", "user-facing requirement")
	}); err != nil {
		t.Fatalf("MutateConfig: %v", err)
	}

	if err := s.Read(func(d *directory.Directory) error {
		cfg := d.Config()
		if !cfg.IsKindAllowed("USR") {
			t.Fatalf("expected USR to be allowed after MutateConfig")
		}
		meta, ok := cfg.MetadataForKind("USR")
		if !ok || meta.Description != "user-facing requirement" {
			t.Fatalf("expected USR description to persist, got %+v", meta)
		}
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Re-open from scratch to confirm the config change was actually
	// written to disk, not just mutated in memory.
	reopened, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("re-open: %v", err)
	}
	if err := reopened.Read(func(d *directory.Directory) error {
		if !d.Config().IsKindAllowed("USR") {
			t.Fatalf("expected USR to survive a fresh Open")
		}
		return nil
	}); err != nil {
		t.Fatalf("Read after re-open: %v", err)
	}
}

func TestMutateConfigRejectsDisallowedKindAfterRemoval(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Two kinds on the allow-list, so removing one still leaves a
	// non-empty list (an empty list means "allow every kind").
	if err := s.MutateConfig(context.Background(), func(cfg *reqconfig.Config) {
		cfg.AddKind("REQ")
		cfg.AddKind("USR")
	}); err != nil {
		t.Fatalf("MutateConfig add: %v", err)
	}
	if err := s.Write(func(d *directory.Directory) error {
		_, err := d.AddRequirement(nil, "REQ", "a requirement", "", nil)
		return err
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := s.MutateConfig(context.Background(), func(cfg *reqconfig.Config) {
		cfg.RemoveKind("REQ")
	}); err != nil {
		t.Fatalf("MutateConfig remove: %v", err)
	}

	err = s.Write(func(d *directory.Directory) error {
		_, err := d.AddRequirement(nil, "REQ", "another requirement", "", nil)
		return err
	})
	if err == nil {
		t.Fatalf("expected AddRequirement to fail for a kind removed from the allow-list")
	}
}

func TestConcurrentReadsDoNotBlock(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Read(func(d *directory.Directory) error {
				d.List()
				return nil
			})
		}()
	}
	wg.Wait()
}
