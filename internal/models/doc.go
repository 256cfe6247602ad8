// Package models defines domain entities and persistence interfaces for the muse mood recommendation service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between services
//   - [MoodProfile] : Interpreted mood with search terms and commentary
//   - [TrackCandidate] : Song metadata returned by provider searches
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : Listening sessions owning a recommendation history
//   - [Recommendation] : Tracks delivered to a session, one row per delivery
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
