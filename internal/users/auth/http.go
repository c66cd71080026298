// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for sign-in and sign-up.

# Architecture

The handler is a thin mediation layer between the web and [Service]:
  - Protocol: JSON bodies, {data} envelopes.
  - Security: Sets and clears the connect.sid session cookie.
  - Verification: Enforces input shape before calling the service.
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sakan/internal/platform/request"
	"github.com/taibuivan/sakan/internal/platform/respond"
	"github.com/taibuivan/sakan/internal/platform/validate"
	"github.com/taibuivan/sakan/pkg/locale"
)

// # Definitions & Constructors

// Handler implements the authentication endpoints.
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a new [Handler]. secureCookies marks the session
// cookie Secure and is enabled in production.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /user/sign-in    : Sends a SIGN_IN code to a registered phone.
//   - POST /user/sign-up    : Registers a user and sends a SIGN_UP code.
//   - POST /user/verify-otp : Redeems a code and opens a session.
//   - POST /user/sign-out   : Invalidates a session.
//   - POST /admin/sign-in   : Opens an admin session from email and password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/user", func(r chi.Router) {
		r.Post("/sign-in", handler.signIn)
		r.Post("/sign-up", handler.signUp)
		r.Post("/verify-otp", handler.verifyOTP)
		r.Post("/sign-out", handler.signOut)
	})

	router.Post("/admin/sign-in", handler.adminSignIn)

	return router
}

// # Request Payloads

type signInRequest struct {
	Phone string `json:"phone"`
}

type signUpRequest struct {
	UniversityID int64       `json:"universityId"`
	Type         string      `json:"type"`
	SubType      *string     `json:"subType"`
	Name         locale.Text `json:"name"`
	Phone        string      `json:"phone"`
}

type verifyOTPRequest struct {
	Code   string `json:"code"`
	Type   string `json:"type"`
	UserID int64  `json:"userId"`
}

type signOutRequest struct {
	SessionToken string `json:"sessionToken"`
}

type adminSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// # Response Payloads

type signInResponse struct {
	OTP    *OTP  `json:"otp"`
	UserID int64 `json:"userId"`
}

type signUpResponse struct {
	OTP  *OTP  `json:"otp"`
	User *User `json:"user"`
}

type verifyOTPResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type adminSignInResponse struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin"`
}

/*
POST /api/v1/auth/user/sign-in

Request:
  - Body: signInRequest (Phone)

Response:
  - 200: signInResponse: Issued code and user id
  - 400: Validation: Malformed phone
  - 401: Unauthorized: Unknown phone
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Phone(FieldPhone, input.Phone).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignIn(request.Context(), input.Phone)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signInResponse{OTP: result.OTP, UserID: result.UserID})
}

/*
POST /api/v1/auth/user/sign-up

Request:
  - Body: signUpRequest (UniversityID, Type, SubType?, Name, Phone)

Response:
  - 201: signUpResponse: Created user and issued code
  - 400: Validation: Bad input
  - 404: NotFound: University does not exist
  - 409: UniqueConstraintViolation: Phone already registered
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Phone(FieldPhone, input.Phone).
		OneOf(FieldType, input.Type, string(UserConsumer), string(UserSeller)).
		Text(FieldName, input.Name).
		Custom(FieldUniversityID, input.UniversityID < 1, "This field is required")
	if input.SubType != nil {
		validator.OneOf(FieldSubType, *input.SubType, string(SubTypeBroker), string(SubTypeOffice), string(SubTypeOwner))
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var subType *UserSubType
	if input.SubType != nil {
		value := UserSubType(*input.SubType)
		subType = &value
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		UniversityID: input.UniversityID,
		Type:         UserType(input.Type),
		SubType:      subType,
		Name:         input.Name,
		Phone:        input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, signUpResponse{OTP: result.OTP, User: result.User})
}

/*
POST /api/v1/auth/user/verify-otp

Description: Redeems a code; on success the session cookie is set and the
signed token is also returned for bearer clients.

Response:
  - 200: verifyOTPResponse: Token and user
  - 401: Unauthorized: Code mismatch
  - 404: NotFound: Unknown or expired code, or vanished user
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyOTPRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.OTP(FieldCode, input.Code).
		OneOf(FieldType, input.Type, string(OTPSignIn), string(OTPSignUp)).
		Custom(FieldUserID, input.UserID < 1, "This field is required")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.VerifyOTP(request.Context(), VerifyOTPInput{
		Code:   input.Code,
		Type:   OTPType(input.Type),
		UserID: input.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookie(writer, result.Session, result.Token, handler.secureCookies)
	respond.OK(writer, verifyOTPResponse{Token: result.Token, User: result.User})
}

/*
POST /api/v1/auth/user/sign-out

Description: Invalidates the session named in the body, or the one carried by
the request when the body is empty, and clears the cookie.

Response:
  - 204: No Content
  - 400: Validation: No token supplied
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	var input signOutRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := input.SessionToken
	if token == "" {
		token = extractToken(request)
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldSessionToken, token).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SignOut(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	DeleteSessionCookie(writer, handler.secureCookies)
	respond.NoContent(writer)
}

/*
POST /api/v1/auth/admin/sign-in

Response:
  - 200: adminSignInResponse: Token and admin
  - 401: Unauthorized: Bad credentials
*/
func (handler *Handler) adminSignIn(writer http.ResponseWriter, request *http.Request) {
	var input adminSignInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.AdminSignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookie(writer, result.Session, result.Token, handler.secureCookies)
	respond.OK(writer, adminSignInResponse{Token: result.Token, Admin: result.Admin})
}
