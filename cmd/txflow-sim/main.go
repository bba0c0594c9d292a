// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// txflow-sim drives a handful of simulated participants through a few
// gossip rounds and prints the resulting DAG and misbehaviour counts.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/luxfi/database/memdb"

	"github.com/luxfi/txflow/dag"
	"github.com/luxfi/txflow/store"
	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/wrappers"
	"github.com/luxfi/txflow/witness"
)

var logger = slog.Default().With("module", "txflow-sim")

func main() {
	numNodes := flag.Int("nodes", 4, "Number of participants to simulate")
	numWitnesses := flag.Int("witnesses", 3, "Witnesses per epoch")
	rounds := flag.Int("rounds", 16, "Number of gossip rounds")
	equivocate := flag.Bool("equivocate", false, "Make the last participant equivocate once")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *numNodes < 1 {
		logger.Error("need at least one participant")
		os.Exit(1)
	}
	rng := rand.New(rand.NewSource(*seed))

	participants := make([]types.UID, *numNodes)
	for i := range participants {
		participants[i] = types.UID(i)
	}
	selector := witness.NewRotatingSelector(participants, *numWitnesses)

	dags := make([]*dag.DAG, *numNodes)
	stores := make([]*store.MessageStore, *numNodes)
	for i := range dags {
		messageStore, err := store.New(nil, memdb.New(), nil)
		if err != nil {
			logger.Error("failed to create store", "err", err)
			os.Exit(1)
		}
		stores[i] = messageStore

		d, err := dag.New(dag.Config{
			OwnerUID: participants[i],
			Selector: selector,
			Store:    messageStore,
		})
		if err != nil {
			logger.Error("failed to create dag", "err", err)
			os.Exit(1)
		}
		dags[i] = d
	}

	broadcast := func(from int, data types.SignedMessageData) {
		for i, d := range dags {
			if i == from {
				continue
			}
			if err := d.AddExistingMessage(data); err != nil {
				logger.Warn("ingest failed", "node", i, "err", err)
			}
		}
	}

	for round := 0; round < *rounds; round++ {
		creator := rng.Intn(*numNodes)
		payload := types.RawPayload(fmt.Sprintf("round-%d", round))
		message := dags[creator].CreateRootMessage(payload, nil)
		broadcast(creator, message.Data)
	}

	if *equivocate {
		evil := participants[*numNodes-1]
		body := types.MessageDataBody{
			OwnerUID: evil,
			Epoch:    0,
			Payload:  types.RawPayload("equivocation"),
		}
		data := types.SignedMessageData{
			Hash: types.HashBody(&body),
			Body: body,
		}
		broadcast(-1, data)
	}

	for i, d := range dags {
		logger.Info("node state",
			"node", i,
			"messages", d.NumMessages(),
			"roots", d.NumRoots(),
			"violations", len(d.Violations()),
		)
	}

	var errs wrappers.Errs
	for _, s := range stores {
		errs.Add(s.Close())
	}
	if errs.Errored() {
		logger.Error("failed to close stores", "err", errs.Err())
		os.Exit(1)
	}
}
