// Package board defines the board document model: layers, the frame payload,
// and the read-only snapshot the geometry engine computes over.
//
// # Ownership
//
// The map from layer ID to layer is owned by the collaborative storage layer
// outside this module. The engine is handed an immutable [Snapshot] (layer map
// plus the ordered ID list) and returns proposed values (placements, bounds,
// reordered ID lists) for the caller to persist. Nothing in this module
// mutates a snapshot after construction.
//
// # Serialization
//
// Board is the canonical serialization format, designed for round-trip
// fidelity: import → transform → export → re-import produces identical
// results. Layer order in the serialized form is the board's z-order.
package board
