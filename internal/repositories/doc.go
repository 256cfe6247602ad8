// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SessionRepository] : Listening session persistence with label-based lookups
//   - [RecommendationRepository] : Delivered-track history with per-session queries
//   - [HistoryAdapter] : Recording facade with duplicate-delivery deduplication and seen-key hydration
//
// Sequence numbers provide stable, human-readable ordering (e.g., session #42, recommendation #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
