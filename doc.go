// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package txflow provides the verified substrate of the TxFlow consensus
protocol: an append-only, content-addressed DAG of signed participant
messages, plus the nibble-addressable byte view used by the trie-based
state storage.

# Architecture

The repository is organized into the following components:

  - types/     Shared data model (UIDs, hashes, signed message envelope)
  - dag/       Message DAG: ingest, verification, misbehaviour reports
  - witness/   Witness-selection schedule consumed by the DAG
  - store/     Database-backed index of accepted messages
  - nibble/    Nibble view and hex-prefix codec for trie keys
  - utils/     Sets, wire packing, deterministic sampling

The DAG records protocol violations instead of rejecting the offending
messages, so the evidence stays available to the higher consensus layer.
Epoch finalization, gossip, signing and the trie itself live outside
this module.
*/
package txflow
