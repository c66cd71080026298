// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var sessionTokenPattern = regexp.MustCompile(`^[a-z2-7]{32}$`)

/*
TestGenerateSessionToken checks the alphabet and length of generated tokens.
*/
func TestGenerateSessionToken(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sessionTokenPattern.MatchString(token) {
			t.Fatalf("token %q is not 32 lowercase base32 characters", token)
		}
	})
}

/*
TestGenerateOTP checks that every code is six digits inside the allowed range.
*/
func TestGenerateOTP(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		value, err := strconv.Atoi(code)
		if err != nil || len(code) != 6 || value < OTPMin || value > OTPMax {
			t.Fatalf("otp %q out of range", code)
		}
	})
}

/*
TestHashToken verifies that the digest is deterministic lowercase hex.
*/
func TestHashToken(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		token := rapid.String().Draw(t, "token")
		digest := HashToken(token)
		if len(digest) != 64 || digest != HashToken(token) {
			t.Fatalf("unstable digest %q", digest)
		}
	})

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashToken(""))
}

/*
TestSessionTokenService_RoundTrip ensures that signed envelopes verify to the same token.
*/
func TestSessionTokenService_RoundTrip(t *testing.T) {
	service, err := NewSessionTokenService("secret", time.Hour)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[a-z2-7]{32}`).Draw(t, "raw")
		signed, err := service.Sign(raw)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		got, err := service.Verify(signed)
		if err != nil || got != raw {
			t.Fatalf("verify returned %q, %v", got, err)
		}
	})
}

/*
TestSessionTokenService_Rejects covers the failure paths of Verify.
*/
func TestSessionTokenService_Rejects(t *testing.T) {
	service, err := NewSessionTokenService("secret", time.Hour)
	require.NoError(t, err)

	other, err := NewSessionTokenService("other-secret", time.Hour)
	require.NoError(t, err)

	signed, err := service.Sign("abc")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := service.Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign_secret", func(t *testing.T) {
		_, err := other.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { service.now = time.Now }()

		_, err := service.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty_claim", func(t *testing.T) {
		empty, err := service.Sign("")
		require.NoError(t, err)
		_, err = service.Verify(empty)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

/*
TestNewSessionTokenService_Validation rejects unusable settings.
*/
func TestNewSessionTokenService_Validation(t *testing.T) {
	_, err := NewSessionTokenService("", time.Hour)
	assert.Error(t, err)

	_, err = NewSessionTokenService("secret", 0)
	assert.Error(t, err)
}

/*
TestPasswordHash verifies bcrypt hashing for admin credentials.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
