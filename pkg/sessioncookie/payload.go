package sessioncookie

// Version is the current payload schema version. Cookies carrying any other
// value are rejected wholesale so a shape change never half-trusts old data.
const Version = "1"

// AuthType is the trust tier encoded in the session.
type AuthType string

const (
	AuthTypeGuest AuthType = "guest"
	AuthTypeUser  AuthType = "user"
	AuthTypeAdmin AuthType = "admin"
)

// Known reports whether the value is one of the defined trust tiers.
func (a AuthType) Known() bool {
	switch a {
	case AuthTypeGuest, AuthTypeUser, AuthTypeAdmin:
		return true
	}
	return false
}

// Payload is the decrypted session cookie content, serialized as claims.
type Payload struct {
	Access    string   `json:"access"`
	Refresh   string   `json:"refresh"`
	UserID    string   `json:"userId"`
	AuthType  AuthType `json:"authType"`
	Version   string   `json:"version"`
	Subject   string   `json:"sub,omitempty"`
	ExpiresAt int64    `json:"exp,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
}
