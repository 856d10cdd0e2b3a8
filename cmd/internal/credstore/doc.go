// Package credstore persists the client's credential pair and advisory
// record cache between process runs.
//
// It is the durable key-value storage the session core and API gateway share:
// two token entries written and removed as a pair, plus serialized copies of
// the last known user and profile records for instant hydration before a
// fresh verification completes. Cached records are advisory only and are
// never trusted over the server's answer.
//
// All writers treat the store as last-write-wins; the storage medium is
// single-process scoped and concurrent multi-process access is out of scope.
package credstore
