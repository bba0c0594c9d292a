// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists accepted messages by their canonical hash so
// the sync layer can serve ancestor requests across restarts.
package store

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/luxfi/database"
	"github.com/luxfi/log"

	"github.com/luxfi/txflow/types"
)

// MessageStore is a database-backed index of accepted messages.
type MessageStore struct {
	log     log.Logger
	db      database.Database
	metrics *storeMetrics
}

// New creates a message store over [db]. A nil logger or registerer
// falls back to a no-op logger and a throwaway registry.
func New(logger log.Logger, db database.Database, registerer prometheus.Registerer) (*MessageStore, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register store metrics: %w", err)
	}
	return &MessageStore{
		log:     logger,
		db:      db,
		metrics: metrics,
	}, nil
}

// Put persists [data] keyed by its hash. Re-puts of the same message are
// harmless overwrites.
func (s *MessageStore) Put(data types.SignedMessageData) error {
	bytes := Marshal(data)
	if err := s.db.Put(data.Hash[:], bytes); err != nil {
		return fmt.Errorf("failed to persist message %s: %w", data.Hash, err)
	}
	s.metrics.putMessages.Inc()
	s.metrics.putBytes.Add(float64(len(bytes)))
	s.log.Verbo("persisted message",
		zap.Stringer("hash", data.Hash),
		zap.Int("numBytes", len(bytes)),
	)
	return nil
}

// Get returns the message stored under [hash]. Returns
// database.ErrNotFound when absent.
func (s *MessageStore) Get(hash types.StructHash) (types.SignedMessageData, error) {
	bytes, err := s.db.Get(hash[:])
	if err != nil {
		s.metrics.getMisses.Inc()
		return types.SignedMessageData{}, err
	}
	s.metrics.getHits.Inc()
	return Unmarshal(bytes)
}

// Has returns whether a message is stored under [hash].
func (s *MessageStore) Has(hash types.StructHash) (bool, error) {
	return s.db.Has(hash[:])
}

// Close releases the underlying database.
func (s *MessageStore) Close() error {
	return s.db.Close()
}
