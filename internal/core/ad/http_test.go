// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ad

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/users/auth"
)

// asPrincipal authenticates every request as the given principal.
func asPrincipal(principal *auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(auth.WithPrincipal(request.Context(), principal)))
		})
	}
}

const createBody = `{
	"location": {"x": 31.2357, "y": 30.0444},
	"addressDetails": {"ar": "المعادي", "en": "Maadi"},
	"apartmentType": {"ar": "شقة"},
	"isFurnished": true,
	"occupierCategory": {"ar": "طلاب"},
	"level": {"ar": "الثالث"},
	"amenities": {"ar": "واي فاي"},
	"bathroomCount": 2,
	"administrativeFees": 300,
	"insurance": 1000,
	"rate": 4500,
	"additionalDetails": {"ar": "قريب من الجامعة"},
	"images": [{"path": "AD_IMAGE/a.png", "storageType": "S3"}],
	"adBedrooms": [{"occupancy": {"ar": "فردي"}, "rate": 2500}]
}`

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_CreateThenFind covers the create, list and fetch endpoints together.
*/
func TestHandler_CreateThenFind(t *testing.T) {
	service, _, _ := newTestService()
	router := NewHandler(service, asPrincipal(sellerPrincipal())).Routes()

	recorder := serve(router, http.MethodPost, "/create", createBody)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data Ad `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 2, created.Data.Bathrooms)
	assert.Equal(t, "Maadi", *created.Data.AddressDetails.En)
	require.NotNil(t, created.Data.AdditionalNotes)

	recorder = serve(router, http.MethodPost, "/find-many", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var page struct {
		Data []Ad `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Meta.Total)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/abc", "").Code)
}

/*
TestHandler_Create_AdminForbidden verifies admin sessions cannot post ads.
*/
func TestHandler_Create_AdminForbidden(t *testing.T) {
	service, repository, _ := newTestService()
	admin := &auth.Principal{Kind: auth.SessionAdmin, Admin: &auth.Admin{ID: 1}}
	router := NewHandler(service, asPrincipal(admin)).Routes()

	recorder := serve(router, http.MethodPost, "/create", createBody)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, repository.ads)
}

/*
TestHandler_Create_InvalidJSON rejects malformed bodies.
*/
func TestHandler_Create_InvalidJSON(t *testing.T) {
	service, _, _ := newTestService()
	router := NewHandler(service, asPrincipal(sellerPrincipal())).Routes()

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/create", `{"rate":`).Code)
}
