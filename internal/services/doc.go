// Package services defines the [Searcher] and [Interpreter] interfaces for the
// recommendation pipeline and implements them for Spotify, YouTube and Gemini.
//
// # Searcher Interface
//
// All music providers implement a common abstraction, enabling candidate search
// and track lookup to work uniformly across providers.
//
// # Spotify Implementation
//
// [SpotifyService] uses the OAuth2 client credentials flow, which grants access
// to the public catalog endpoints without a user login. The [clientcredentials.Config]
// client refreshes expired tokens automatically.
//
// # YouTube Implementation
//
// [YouTubeService] calls the YouTube Data API v3 with an API key, restricting
// searches to the Music category. It doubles as the [LinkResolver] used to
// attach a watchable URL to recommendations.
//
// # Interpreter Implementations
//
// [GeminiService] sends mood messages to the Gemini generateContent endpoint
// with a strict-JSON system prompt and parses the reply into a [models.MoodProfile].
// [KeywordInterpreter] is a deterministic fallback that matches mood words
// against a fixed table, keeping recommendations available when the LLM is down.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAuthFailed] : credential exchange failed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrNoCandidates] : a search produced no usable tracks
//   - [shared.ErrInterpretation] : the LLM reply could not be parsed
//
// # API Mappings
//
// Both searchers convert provider-specific JSON responses to [models.TrackCandidate]:
//   - Spotify: Maps [SpotifyTrack] → candidate with popularity and album artwork
//   - YouTube: Maps search items → candidate with watch URL and thumbnail
//
// Track matching scores normalized title/artist similarity, weighting title over artist.
package services
