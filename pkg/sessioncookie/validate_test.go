package sessioncookie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validPayload() *Payload {
	return &Payload{
		Access:    "access-token",
		Refresh:   "refresh-token",
		UserID:    "user-1",
		AuthType:  AuthTypeUser,
		Version:   Version,
		Subject:   "user-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}
}

func TestValidate_NilPayload(t *testing.T) {
	t.Parallel()

	result := Validate(nil)
	assert.False(t, result.Valid)
	assert.Equal(t, "session payload missing", result.Reason)
}

func TestValidate_VersionGate(t *testing.T) {
	t.Parallel()

	t.Run("absent version treated as zero", func(t *testing.T) {
		t.Parallel()
		p := validPayload()
		p.Version = ""
		result := Validate(p)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, `"0"`)
		assert.Contains(t, result.Reason, `"`+Version+`"`)
	})

	t.Run("stale version rejected", func(t *testing.T) {
		t.Parallel()
		p := validPayload()
		p.Version = "0"
		result := Validate(p)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "does not match current version")
	})

	t.Run("version checked before required fields", func(t *testing.T) {
		t.Parallel()
		p := &Payload{Version: "0"}
		result := Validate(p)
		assert.Contains(t, result.Reason, "does not match current version")
	})
}

func TestValidate_RequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  string
		mutate func(*Payload)
	}{
		{"access", func(p *Payload) { p.Access = "" }},
		{"refresh", func(p *Payload) { p.Refresh = "" }},
		{"userId", func(p *Payload) { p.UserID = "" }},
		{"authType", func(p *Payload) { p.AuthType = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()
			p := validPayload()
			tt.mutate(p)
			result := Validate(p)
			assert.False(t, result.Valid)
			assert.Equal(t, "required field '"+tt.field+"' is missing", result.Reason)
		})
	}
}

func TestValidate_OrderingDeterministic(t *testing.T) {
	t.Parallel()

	// With several fields missing the first check in order wins, so the
	// absence of one field never masks which check produced the error.
	p := validPayload()
	p.Access = ""
	p.UserID = ""
	p.AuthType = "superuser"

	result := Validate(p)
	assert.Equal(t, "required field 'access' is missing", result.Reason)

	p.Access = "access-token"
	result = Validate(p)
	assert.Equal(t, "required field 'userId' is missing", result.Reason)

	p.UserID = "user-1"
	result = Validate(p)
	assert.Equal(t, `invalid authType "superuser"`, result.Reason)
}

func TestValidate_BlankAfterTrim(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Access = "   "
	result := Validate(p)
	assert.Equal(t, "access token is empty", result.Reason)

	p = validPayload()
	p.Refresh = "\t"
	result = Validate(p)
	assert.Equal(t, "refresh token is empty", result.Reason)

	p = validPayload()
	p.UserID = " "
	result = Validate(p)
	assert.Equal(t, "userId is empty", result.Reason)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	t.Run("exp equal to now is expired", func(t *testing.T) {
		t.Parallel()
		p := validPayload()
		p.ExpiresAt = now.Unix()
		result := validateAt(p, now)
		assert.False(t, result.Valid)
		assert.Equal(t, "session expired", result.Reason)
	})

	t.Run("exp one second in the future is valid", func(t *testing.T) {
		t.Parallel()
		p := validPayload()
		p.ExpiresAt = now.Unix() + 1
		result := validateAt(p, now)
		assert.True(t, result.Valid)
	})

	t.Run("absent exp is not checked", func(t *testing.T) {
		t.Parallel()
		p := validPayload()
		p.ExpiresAt = 0
		result := validateAt(p, now)
		assert.True(t, result.Valid)
	})
}

func TestValidate_AllTiers(t *testing.T) {
	t.Parallel()

	for _, tier := range []AuthType{AuthTypeGuest, AuthTypeUser, AuthTypeAdmin} {
		p := validPayload()
		p.AuthType = tier
		assert.True(t, Validate(p).Valid, "tier %s", tier)
	}
}

func TestShouldClear(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldClear(nil))

	p := validPayload()
	assert.False(t, ShouldClear(p))

	p.Version = "0"
	assert.True(t, ShouldClear(p))
}
