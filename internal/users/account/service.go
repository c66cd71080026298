// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/validate"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/pointer"
)

// Field names used in validation errors.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldWhatsApp = "whatsapp"
	FieldImage    = "image"
)

// # Service Layer

// Service implements the profile use cases.
type Service struct {
	userRepository auth.UserRepository
	files          FileVerifier
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository, files FileVerifier) *Service {
	return &Service{userRepository: userRepo, files: files}
}

// GetProfile returns the account behind the principal.
func (service *Service) GetProfile(_ context.Context, principal *auth.Principal) *Profile {
	return &Profile{Kind: principal.Kind, User: principal.User, Admin: principal.Admin}
}

/*
UpdateProfile applies a partial update to the calling user.

Description: The user row is re-read so that concurrent updates of other
fields are not overwritten with the copy cached on the principal.

Parameters:
  - context: context.Context
  - principal: *auth.Principal
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Forbidden for admins, validation, file verification or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, principal *auth.Principal, input UpdateInput) (*auth.User, error) {
	if principal.User == nil {
		return nil, apperr.Forbidden("Admin profiles cannot be edited here")
	}

	validator := &validate.Validator{}
	validator.Custom(FieldName, input.IsEmpty(), "At least one field must be provided")
	if input.Name != nil {
		validator.Text(FieldName, *input.Name)
	}
	if input.Email != nil {
		validator.Email(FieldEmail, *input.Email)
	}
	if input.WhatsApp != nil {
		validator.Phone(FieldWhatsApp, *input.WhatsApp)
	}
	if input.Image != nil {
		validator.Required(FieldImage+".path", input.Image.Path)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Image != nil {
		if err := service.files.VerifyFileUpload(context, *input.Image, storage.UploadUserImage); err != nil {
			return nil, err
		}
	}

	user, err := service.userRepository.FindByID(context, principal.User.ID)
	if err != nil {
		return nil, err
	}

	user.Name = pointer.Fallback(input.Name, user.Name)
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.WhatsApp != nil {
		user.WhatsApp = input.WhatsApp
	}
	if input.Image != nil {
		user.Image = input.Image
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "profile_updated", slog.Int64("user_id", user.ID))
	return user, nil
}
