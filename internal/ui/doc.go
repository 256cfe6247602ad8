// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a chat-style workflow for mood-based recommendations:
//  1. [ChatView] : Type a mood message and review recommended tracks
//  2. [BusyView] : Watch real-time pipeline progress while a turn runs
//  3. [HistoryView] : Browse the session's delivered tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the RecommendEngine, providing
// non-blocking status reporting during recommendation turns.
//
// Keyboard controls: enter sends a message, ctrl+n requests another track for
// the same mood, ctrl+h opens the history view, esc goes back, ctrl+c quits.
package ui
