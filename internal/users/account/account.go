// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the profile of the signed-in caller.

# Architecture

  - Entities: Profile (DTO over auth.User / auth.Admin).
  - Domain: This package depends on the auth package for accounts and repositories.
  - Files: Profile images must be verified USER_IMAGE uploads.
*/
package account

import (
	"context"

	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/locale"
)

// Profile is the view of the caller returned by GET /account/me.
type Profile struct {
	Kind  auth.SessionType `json:"kind"`
	User  *auth.User       `json:"user,omitempty"`
	Admin *auth.Admin      `json:"admin,omitempty"`
}

// UpdateInput holds a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Name     *locale.Text
	Email    *string
	WhatsApp *string
	Image    *storage.FileRef
}

// IsEmpty reports whether the update changes nothing.
func (input UpdateInput) IsEmpty() bool {
	return input.Name == nil && input.Email == nil && input.WhatsApp == nil && input.Image == nil
}

// FileVerifier confirms that a referenced file was uploaded for a purpose.
type FileVerifier interface {
	VerifyFileUpload(context context.Context, ref storage.FileRef, uploadType storage.UploadType) error
}
