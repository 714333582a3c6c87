// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caresite/internal/revalidate"
)

type countingSink struct {
	mu    sync.Mutex
	paths [][]string
}

func (s *countingSink) Revalidate(_ context.Context, paths, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, paths)
	return nil
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

func TestRevalidationOutlivesShutdownSignal(t *testing.T) {
	signalCtx, sigterm := context.WithCancel(context.Background())
	ps := revalidate.NewPubSub()
	defer ps.Close()

	sink := &countingSink{}
	stop, err := startRevalidation(signalCtx, ps, sink)
	require.NoError(t, err)
	defer stop()

	// SIGTERM arrives while requests are still draining.
	sigterm()
	pub := revalidate.NewPublisher(ps)
	require.NoError(t, pub.Revalidate(context.Background(), []string{"/services"}, nil))
	require.Eventually(t, func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []string{"/services"}, sink.paths[0])
}
