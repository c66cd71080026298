// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// OTPTTL is how long a one-time password stays redeemable.
	OTPTTL = 5 * time.Minute

	// AdminSessionTTL is the initial lifetime of an admin session.
	AdminSessionTTL = 24 * time.Hour

	// UserSessionTTL is the lifetime of a consumer or seller session.
	UserSessionTTL = 365 * 24 * time.Hour

	// AdminRenewWindow is how close to expiry an active admin session must be
	// before it gets extended.
	AdminRenewWindow = 15 * 24 * time.Hour

	// AdminRenewExtension is the new lifetime granted on renewal.
	AdminRenewExtension = 30 * 24 * time.Hour
)

// # Request Fields

const (
	FieldPhone        = "phone"
	FieldCode         = "code"
	FieldType         = "type"
	FieldSubType      = "subType"
	FieldName         = "name"
	FieldUserID       = "userId"
	FieldUniversityID = "universityId"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldSessionToken = "sessionToken"
)
