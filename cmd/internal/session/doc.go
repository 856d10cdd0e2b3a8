// Package session is the single source of truth for "who is logged in".
//
// It implements the client's authentication lifecycle over a deterministic
// state machine: startup verification, login, registration, and logout, with
// credential persistence delegated to credstore and all network I/O
// delegated to the API gateway. The UI layer consumes immutable State
// snapshots and invokes the operations; it never touches tokens directly.
//
// The core applies no cross-operation mutual exclusion beyond a mutex that
// keeps snapshots data-race free. Overlapping operations settle
// last-write-wins; preventing concurrent submission is the caller's job.
package session
