// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/locale"
	"github.com/taibuivan/sakan/pkg/pointer"
)

// memoryUsers stores copies so tests observe only what Update persisted.
type memoryUsers struct {
	users map[int64]auth.User
}

func (store *memoryUsers) Create(context.Context, *auth.User) error { return nil }

func (store *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

func (store *memoryUsers) FindByIDAndType(ctx context.Context, id int64, _ auth.UserType) (*auth.User, error) {
	return store.FindByID(ctx, id)
}

func (store *memoryUsers) FindByPhone(context.Context, string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) Update(_ context.Context, user *auth.User) error {
	if _, ok := store.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	store.users[user.ID] = *user
	return nil
}

type fakeVerifier struct {
	uploaded map[string]storage.UploadType
}

func (verifier fakeVerifier) VerifyFileUpload(_ context.Context, ref storage.FileRef, uploadType storage.UploadType) error {
	got, ok := verifier.uploaded[ref.Path]
	if !ok {
		return storage.ErrFileNotFound()
	}
	if got != uploadType {
		return storage.ErrInvalidType(uploadType)
	}
	return nil
}

func newTestService() (*Service, *memoryUsers, *auth.Principal) {
	user := auth.User{ID: 7, Type: auth.UserConsumer, Name: locale.Text{Ar: "سارة"}, Phone: "01012345678"}
	users := &memoryUsers{users: map[int64]auth.User{7: user}}
	verifier := fakeVerifier{uploaded: map[string]storage.UploadType{
		"USER_IMAGE/me.png": storage.UploadUserImage,
		"AD_IMAGE/ad.png":   storage.UploadAdImage,
	}}
	principal := &auth.Principal{Kind: auth.SessionConsumer, User: &user}
	return NewService(users, verifier), users, principal
}

/*
TestService_UpdateProfile applies partial updates and verifies the image purpose.
*/
func TestService_UpdateProfile(t *testing.T) {
	email := "sara@sakan.app"
	image := storage.FileRef{Path: "USER_IMAGE/me.png", StorageType: storage.StorageS3}
	adImage := storage.FileRef{Path: "AD_IMAGE/ad.png", StorageType: storage.StorageS3}
	missing := storage.FileRef{Path: "USER_IMAGE/none.png", StorageType: storage.StorageS3}

	tests := []struct {
		name  string
		input UpdateInput
		code  apperr.ErrorCode
	}{
		{"email_and_image", UpdateInput{Email: &email, Image: &image}, 0},
		{"empty", UpdateInput{}, apperr.CodeValidation},
		{"bad_email", UpdateInput{Email: pointer.To("not-an-email")}, apperr.CodeValidation},
		{"blank_name", UpdateInput{Name: &locale.Text{}}, apperr.CodeValidation},
		{"image_for_ads", UpdateInput{Image: &adImage}, apperr.CodeInvalid},
		{"image_missing", UpdateInput{Image: &missing}, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users, principal := newTestService()

			user, err := service.UpdateProfile(context.Background(), principal, tt.input)
			if tt.code != 0 {
				require.Error(t, err)
				assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
				assert.Nil(t, users.users[7].Email)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, email, *user.Email)
			assert.Equal(t, image, *users.users[7].Image)
			assert.Equal(t, "سارة", users.users[7].Name.Ar)
		})
	}
}

/*
TestService_UpdateProfile_Admin verifies admins are refused.
*/
func TestService_UpdateProfile_Admin(t *testing.T) {
	service, _, _ := newTestService()
	admin := &auth.Principal{Kind: auth.SessionAdmin, Admin: &auth.Admin{ID: 1}}
	name := locale.Text{Ar: "مدير"}

	_, err := service.UpdateProfile(context.Background(), admin, UpdateInput{Name: &name})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

/*
TestHandler_Me covers the GET and PATCH endpoints.
*/
func TestHandler_Me(t *testing.T) {
	service, _, principal := newTestService()
	router := NewHandler(service).Routes()

	withPrincipal := func(request *http.Request) *http.Request {
		return request.WithContext(auth.WithPrincipal(request.Context(), principal))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodGet, "/me", nil)))
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile struct {
		Data Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &profile))
	assert.Equal(t, auth.SessionConsumer, profile.Data.Kind)
	assert.Equal(t, int64(7), profile.Data.User.ID)

	recorder = httptest.NewRecorder()
	body := strings.NewReader(`{"whatsapp":"01098765432"}`)
	router.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodPatch, "/me", body)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"whatsapp":"01098765432"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
