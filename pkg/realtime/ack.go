package realtime

import "strings"

// Ack is the acknowledgment returned for every join and emit. The hub
// never raises auth failures out of band; they always arrive here.
type Ack struct {
	OK    bool
	Error string
}

// authErrors are the acknowledgment strings that mean the presented
// token was rejected, as opposed to any other failure.
var authErrors = map[string]struct{}{
	"unauthorized":      {},
	"token expired":     {},
	"invalid token":     {},
	"no token provided": {},
}

// AuthFailed reports whether the ack signals a rejected credential.
func (a Ack) AuthFailed() bool {
	if a.OK {
		return false
	}
	_, ok := authErrors[strings.ToLower(strings.TrimSpace(a.Error))]
	return ok
}

func ackOK() Ack               { return Ack{OK: true} }
func ackErr(reason string) Ack { return Ack{Error: reason} }
func ackUnauthorized() Ack     { return Ack{Error: "unauthorized"} }
