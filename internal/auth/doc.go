// Package auth owns the session token lifecycle.
//
// [CredentialStore] is durable get/set/clear storage for the access and
// refresh token pair; [SQLiteStore] backs it with the local database so a
// session survives restarts, and [MemoryStore] substitutes in tests.
//
// [Manager] layers the lifecycle rules on top of a store: it hands out the
// current access token, exchanges the refresh token for a new pair when a
// call comes back 401, and forces a logout when the exchange fails. Refresh
// is single-flight: concurrent callers that each observe an expired token
// share one network exchange and one outcome, so a single-use refresh token
// is never sent twice.
package auth
