// Package tasks orchestrates mood-based recommendations with real-time progress reporting.
//
// # Core Operations
//
// The [RecommendEngine] interface defines two operations:
//
//  1. [RecommendEngine.Recommend] : Full mood → track turn
//     - Interprets the listener's message into a mood profile (LLM with keyword fallback)
//     - Fans search terms out to every provider through a rate-limited worker pool
//     - Drops scored candidates below the popularity floor
//     - Selects the first unseen candidate from a shuffled list, claiming it in seen-memory
//     - Resolves a watchable video link and records the delivery, both best effort
//
//  2. [RecommendEngine.Trending] : Popular tracks with an hourly cache
//     - Merges fixed trending queries across providers
//     - Applies a higher popularity floor and sorts by popularity
//     - Serves repeat calls from cache for an hour
//
// # Selection
//
// [Select] shuffles candidates (deterministically under a fixed seed) and claims
// the first key the session's memory has not seen. When every candidate is
// already seen it returns [shared.ErrExhausted] without touching the memory;
// the engine then retries once with a single broadened query before giving up.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # History Recording
//
// The optional [HistoryRecorder] interface enables automatic delivery persistence.
//
// Deliveries are recorded silently (errors ignored) to avoid disrupting recommendations.
//
// # Implementation
//
// [MoodEngine] implements [RecommendEngine] with dependencies on:
//   - [services.Interpreter] : Gemini plus the keyword fallback
//   - [services.Searcher] : Spotify and YouTube API clients
//   - [services.LinkResolver] : YouTube video lookup
//   - [HistoryRecorder] : Optional persistence layer (repositories.HistoryAdapter)
package tasks
