// Package session exposes the session cookie over HTTP: reading the
// current decrypted payload, creating and rotating the cookie, logout,
// and a server-side proactive refresh that rotates the token pair
// against the identity upstream and writes the result back.
package session
