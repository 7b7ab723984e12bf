package sessioncookie

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of structural payload validation.
type Result struct {
	Valid  bool
	Reason string
}

func invalid(reason string) Result {
	return Result{Reason: reason}
}

// Validate runs the structural checks in a fixed order; the first failing
// check wins so a given payload always yields the same reason. An absent
// version is treated as "0", which never matches the current version.
func Validate(p *Payload) Result {
	return validateAt(p, time.Now())
}

func validateAt(p *Payload, now time.Time) Result {
	if p == nil {
		return invalid("session payload missing")
	}

	version := p.Version
	if version == "" {
		version = "0"
	}
	if version != Version {
		return invalid(fmt.Sprintf("cookie version %q does not match current version %q", version, Version))
	}

	if p.Access == "" {
		return invalid("required field 'access' is missing")
	}
	if p.Refresh == "" {
		return invalid("required field 'refresh' is missing")
	}
	if p.UserID == "" {
		return invalid("required field 'userId' is missing")
	}
	if p.AuthType == "" {
		return invalid("required field 'authType' is missing")
	}

	if !p.AuthType.Known() {
		return invalid(fmt.Sprintf("invalid authType %q", p.AuthType))
	}

	if strings.TrimSpace(p.Access) == "" {
		return invalid("access token is empty")
	}
	if strings.TrimSpace(p.Refresh) == "" {
		return invalid("refresh token is empty")
	}

	if strings.TrimSpace(p.UserID) == "" {
		return invalid("userId is empty")
	}

	// A cookie expiring exactly now is already expired.
	if p.ExpiresAt != 0 && p.ExpiresAt <= now.Unix() {
		return invalid("session expired")
	}

	return Result{Valid: true}
}

// ShouldClear reports whether the cookie must be expired in the response.
// A nil payload clears as well.
func ShouldClear(p *Payload) bool {
	return !Validate(p).Valid
}
