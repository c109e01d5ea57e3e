// Package plan generates round-by-round group assignments that maximize
// unique pairwise contacts across a fixed agent population while keeping
// the spread of per-agent contact counts within one.
//
// # Reading Guide
//
// Start with these three files to understand the scheduling kernel:
//   - schedule.go: Schedule/Round/Group structures and in-place swap mutation
//   - ledger.go: contact bookkeeping (who has met whom, and how often)
//   - pipeline.go: Build, the three-phase generation pipeline
//
// # Architecture
//
// Generation runs in three sequential phases over a single owned Schedule:
//   - baseline.go: deterministic rotation scheme producing a first valid
//     assignment in linear time
//   - improve.go: bounded greedy local search swapping agents between
//     groups of the same round to shed repeated pairings
//   - fairness.go: targeted swaps bounding the gap between the most- and
//     least-connected agent to at most one
//
// All three phases consult the same constraint predicates in validator.go,
// so cohesive ("always together") and exclusive ("never together") group
// declarations carry identical semantics everywhere.
//
// The pipeline is synchronous and CPU-bound: swaps are applied immediately
// because every application changes the ledger state the next candidate
// evaluation depends on. Callers bound wall-clock cost through the
// iteration limit and configuration size.
//
// Serialization of finished schedules lives in the plan/export sub-package.
package plan
