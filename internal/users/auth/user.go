// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/pkg/locale"
)

// # Enumerations

// UserType separates people looking for housing from people offering it.
type UserType string

const (
	UserConsumer UserType = "CONSUMER"
	UserSeller   UserType = "SELLER"
)

// UserSubType qualifies a seller.
type UserSubType string

const (
	SubTypeBroker UserSubType = "BROKER"
	SubTypeOffice UserSubType = "OFFICE"
	SubTypeOwner  UserSubType = "OWNER"
)

// SessionType tells the guard which table the session owner lives in.
type SessionType string

const (
	SessionAdmin    SessionType = "ADMIN"
	SessionConsumer SessionType = "CONSUMER"
	SessionSeller   SessionType = "SELLER"
)

// OTPType is the flow a one-time password was issued for.
type OTPType string

const (
	OTPSignIn OTPType = "SIGN_IN"
	OTPSignUp OTPType = "SIGN_UP"
)

// SessionTypeFor maps a user type to the session type its sessions carry.
func SessionTypeFor(userType UserType) SessionType {
	if userType == UserSeller {
		return SessionSeller
	}
	return SessionConsumer
}

// # Domain Entities

// User is a consumer or seller account identified by phone number.
type User struct {
	ID           int64            `json:"id"`
	Type         UserType         `json:"type"`
	SubType      *UserSubType     `json:"subType"`
	Name         locale.Text      `json:"name"`
	Email        *string          `json:"email"`
	Phone        string           `json:"phone"`
	Image        *storage.FileRef `json:"image"`
	WhatsApp     *string          `json:"whatsapp"`
	UniversityID *int64           `json:"universityId"`
	IsDeleted    bool             `json:"isDeleted"`
	IsPremium    bool             `json:"isPremium"`
	IsVerified   bool             `json:"isVerified"`
	IsSuspended  bool             `json:"isSuspended"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Admin is a back-office account signing in with email and password.
type Admin struct {
	ID           int64       `json:"id"`
	SuperID      *int64      `json:"superId"`
	Name         locale.Text `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Session is a persisted login. TokenHash is the hex SHA-256 of the signed
// token; the token itself is only ever held by the client.
type Session struct {
	ID        string      `json:"id"`
	TokenHash string      `json:"-"`
	UserID    int64       `json:"userId"`
	Type      SessionType `json:"type"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the session is no longer usable at now.
func (session *Session) Expired(now time.Time) bool {
	return !now.Before(session.ExpiresAt)
}

// OTP describes an issued one-time password.
type OTP struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Type      OTPType   `json:"type"`
}
