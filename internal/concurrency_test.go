// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal contains race detection tests for the history store.
//
// Run with: go test -race -v ./internal/...
package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/storage"
)

// =============================================================================
// TEST CONFIGURATION
// =============================================================================

const (
	// Number of concurrent writers
	raceConcurrency = 16
	// Timeout for race tests
	raceTimeout = 30 * time.Second
)

// TestConcurrency_WritersNeverCorruptTheFile merges from many stores at once.
// Last write wins, so updates may be lost, but every save is atomic and the
// file always loads.
func TestConcurrency_WritersNeverCorruptTheFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, raceConcurrency)
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := storage.NewHistoryStore(path)
			if err != nil {
				errs <- err
				return
			}
			c := model.NewConversation("P", base.Add(time.Duration(i)*time.Second))
			c.AppendUser(fmt.Sprintf("writer %d", i))
			if _, err := store.Merge(c); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	h, err := storage.Load(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(h), 1)
	assert.LessOrEqual(t, len(h), raceConcurrency)
	require.NoError(t, h.Validate())
}

// TestConcurrency_StoreSharedAcrossGoroutines exercises the store's digest
// bookkeeping from a watcher and several savers at once.
func TestConcurrency_StoreSharedAcrossGoroutines(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	store, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	go func() {
		for range changes {
		}
	}()

	c := model.NewConversation("P", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cc := c.Clone()
			cc.AppendUser(fmt.Sprintf("turn %d", i))
			assert.NoError(t, store.Save(storage.History{cc}))
			_, err := store.Load()
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	cancel()
}
