// Package repositories provides the local persistence layer.
//
// [TaskRepository] mirrors scheduled tasks fetched from the backend into
// SQLite so the dashboard can answer "what's due today" without a network
// round trip. The mirror is a cache, never a source of truth: the server
// owns task state, and each successful range fetch fully replaces the
// mirrored window.
package repositories
