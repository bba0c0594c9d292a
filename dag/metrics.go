// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dag

import (
	"github.com/prometheus/client_golang/prometheus"
)

type dagMetrics struct {
	numMessages      prometheus.Gauge
	numRoots         prometheus.Gauge
	acceptedMessages prometheus.Counter
	violations       *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) (*dagMetrics, error) {
	m := &dagMetrics{
		numMessages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "txflow_messages",
			Help: "Number of messages in the DAG",
		}),
		numRoots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "txflow_roots",
			Help: "Number of current DAG roots",
		}),
		acceptedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txflow_accepted_messages",
			Help: "Number of messages added to the DAG",
		}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "txflow_violations",
			Help: "Number of misbehaviour reports filed",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.numMessages,
		m.numRoots,
		m.acceptedMessages,
		m.violations,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
