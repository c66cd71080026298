// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	// sessionTokenBytes is the entropy of a session token (160 bits).
	sessionTokenBytes = 20

	// OTPMin and OTPMax bound the generated one-time passwords (inclusive).
	OTPMin = 100000
	OTPMax = 999999
)

// base32NoPadding is the RFC 4648 alphabet without '=' padding.
var base32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSessionToken returns 20 cryptographically random bytes encoded as
// lowercase, unpadded base32 (32 characters).
func GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return strings.ToLower(base32NoPadding.EncodeToString(buf)), nil
}

// GenerateOTP returns a uniformly distributed six-digit code in [OTPMin, OTPMax].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(OTPMax-OTPMin+1))
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+OTPMin, 10), nil
}
