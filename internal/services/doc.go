// Package services implements the HTTP client surface for the StudySync backend.
//
// # Layers
//
// [APIClient] is the raw transport: it issues one HTTP request with a bounded
// timeout and a client-side rate limit, and knows nothing about sessions. The
// unauthenticated endpoints (login, signup, refresh) live here because they
// run before or beneath the session layer.
//
// [StudyService] is the authenticated wrapper. Every call obtains the current
// access token from [auth.Manager], and on a 401 performs exactly one refresh
// followed by exactly one retry of the same request. There is no backoff and
// no other retry policy; a non-401 failure is returned unmodified.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrUnauthenticated] : no session, or refresh failed (session cleared)
//   - [shared.ErrNetwork] : transport failure, no server response
//   - [shared.ErrServerRejected] : well-formed error response ({detail} body)
package services
