// Package session tracks the lifecycle of the client-held session: restore
// from the encrypted cookie on boot, guest-session creation when none
// exists, login escalation, proactive token refresh, and teardown.
//
// The Manager is an explicitly constructed, dependency-injected object; the
// composition root creates exactly one per process (one per tab in the
// original client model). It holds two independent in-memory token pairs,
// one for the ordinary guest/user session and one for admin escalation.
// They are never merged, and Clear wipes both so logout never leaves admin
// credentials resident.
//
// Restore is idempotent and safe under concurrent callers: while a restore
// is in flight every caller awaits the same underlying operation, and once
// the manager is past its initial state the cached session is returned
// without I/O.
package session
