// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/constants"
	"github.com/taibuivan/sakan/internal/platform/validate"
)

// maxJSONBody bounds JSON request bodies; uploads go through multipart instead.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

An empty body decodes to the zero value so that endpoints with all-optional
payloads (e.g. POST /ad/find-many) accept bodiless requests.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxJSONBody))
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ParamInt64 retrieves a named URL parameter as a positive integer id.

Returns:
  - int64: The parsed id
  - error: apperr.Invalid naming the parameter when it is not a positive integer
*/
func ParamInt64(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value < 1 {
		return 0, apperr.Invalid(name)
	}
	return value, nil
}

/*
BearerToken extracts the token of an "Authorization: Bearer <token>" header.

Returns an empty string when the header is missing or uses another scheme.
*/
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.AuthorizationScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

/*
CookieValue returns the value of the named cookie, or an empty string.
*/
func CookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
