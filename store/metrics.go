// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	putMessages prometheus.Counter
	putBytes    prometheus.Counter
	getHits     prometheus.Counter
	getMisses   prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*storeMetrics, error) {
	m := &storeMetrics{
		putMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflow_store_put_messages",
			Help: "Number of messages persisted",
		}),
		putBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflow_store_put_bytes",
			Help: "Number of message bytes persisted",
		}),
		getHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflow_store_get_hits",
			Help: "Number of store reads that found a message",
		}),
		getMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflow_store_get_misses",
			Help: "Number of store reads that missed",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.putMessages,
		m.putBytes,
		m.getHits,
		m.getMisses,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
