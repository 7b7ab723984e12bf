// Package cookie manages encrypted HTTP cookies.
//
// The Manager seals cookie values with AES-256-GCM before they leave the
// server, so clients hold an opaque token they can neither read nor forge.
// Multiple secrets are supported for key rotation: the first secret seals
// new cookies, all secrets are tried when opening, so cookies written under
// a retired key stay readable during the transition window.
//
// Construction fails when no secret of sufficient length is provided; the
// application must never fall back to writing readable session material.
//
//	mgr, err := cookie.New([]string{os.Getenv("SESSION_COOKIE_SECRET")})
//	if err != nil {
//		// missing or short secret: refuse to start
//	}
//	_ = mgr.SetEncrypted(w, "nextspace-session", payload, cookie.WithMaxAge(3600))
package cookie
