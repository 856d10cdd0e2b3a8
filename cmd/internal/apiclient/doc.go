// Package apiclient is the HTTP gateway to the Tracker authentication API.
//
// It owns all network I/O for the session core: bearer-token attachment from
// the credential store, a one-shot silent refresh-and-replay on 401
// responses, and normalization of the server's heterogeneous error shapes
// into a single typed error with a human-readable message.
//
// The gateway has no dependency on the session store; the dependency runs
// strictly the other way.
package apiclient
