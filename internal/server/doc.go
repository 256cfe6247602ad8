// package server provides the HTTP layer for the recommendation API.
//
// # Routing
//
// [BasicRouter] wraps [net/http.ServeMux] and applies registered [Middleware]
// to every handler. [Handler] implementations describe their own routes via
// Routes, so registration stays next to the handler code.
//
// # Sessions
//
// [SessionRegistry] owns the mapping from session IDs to in-process
// seen-memory. Memories are hydrated lazily from persisted history, so a
// resumed session keeps avoiding tracks it has already been served.
//
// # API
//
// [APIHandler] exposes the pipeline over JSON:
//
//	POST /api/sessions                 create a session
//	POST /api/recommend                run a recommendation turn
//	GET  /api/sessions/{id}/history    list a session's delivered tracks
//	GET  /api/trending                 list trending tracks
//	GET  /health                       liveness check
//
// An exhausted session answers 409 Conflict; unknown sessions answer 404.
package server
