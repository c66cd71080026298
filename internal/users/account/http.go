// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sakan/internal/platform/request"
	"github.com/taibuivan/sakan/internal/platform/respond"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/locale"
)

// Handler implements the HTTP layer for the caller's profile.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the profile endpoints. The caller must
// mount it behind the session guard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	return router
}

/*
GET /api/v1/account/me

Response:
  - 200: Profile
  - 401: No or invalid session
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := auth.PrincipalFrom(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.accountService.GetProfile(request.Context(), principal))
}

type updateMeRequest struct {
	Name     *locale.Text     `json:"name"`
	Email    *string          `json:"email"`
	WhatsApp *string          `json:"whatsapp"`
	Image    *storage.FileRef `json:"image"`
}

/*
PATCH /api/v1/account/me

Request:
  - Body: updateMeRequest (partial)

Response:
  - 200: User: The updated profile
  - 400: Validation
  - 403: Admin session
  - 404: Image not uploaded
  - 409: Email already used
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := auth.PrincipalFrom(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), principal, UpdateInput{
		Name:     input.Name,
		Email:    input.Email,
		WhatsApp: input.WhatsApp,
		Image:    input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
