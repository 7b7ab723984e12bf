// Package randomname generates pseudonymous display names for guest
// identities in the form "adjective-noun-xxxxxx", where the suffix is a
// random 24-bit hex value that makes collisions unlikely.
//
// IsGenerated recognizes the convention, which older cookies relied on to
// classify a restored session as guest. New code classifies by the trust
// tier carried in the session payload instead; the matcher remains for
// compatibility with identities minted before the tier was recorded.
package randomname
