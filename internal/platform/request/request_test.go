// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	requestutil "github.com/taibuivan/sakan/internal/platform/request"
)

/*
TestBearerToken tests header parsing for the Authorization scheme.
*/
func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc.def", "abc.def"},
		{"lowercase_scheme", "bearer abc", "abc"},
		{"missing", "", ""},
		{"basic_scheme", "Basic dXNlcg==", ""},
		{"no_token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, requestutil.BearerToken(request))
		})
	}
}

/*
TestDecodeJSON verifies that empty bodies are tolerated and malformed ones rejected.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Phone string `json:"phone"`
	}

	ok := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"01012345678"}`))
	require.NoError(t, requestutil.DecodeJSON(ok, &target))
	assert.Equal(t, "01012345678", target.Phone)

	empty := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.NoError(t, requestutil.DecodeJSON(empty, &target))

	broken := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":`))
	err := requestutil.DecodeJSON(broken, &target)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestParamInt64 verifies id parsing from chi URL parameters.
*/
func TestParamInt64(t *testing.T) {
	build := func(value string) *http.Request {
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", value)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
	}

	id, err := requestutil.ParamInt64(build("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = requestutil.ParamInt64(build("abc"), "id")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalid))

	_, err = requestutil.ParamInt64(build("0"), "id")
	assert.Error(t, err)
}
