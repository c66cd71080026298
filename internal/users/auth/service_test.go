// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/sec"
	"github.com/taibuivan/sakan/pkg/locale"
)

type recordingSender struct {
	sent []*OTP
	err  error
}

func (sender *recordingSender) Send(_ context.Context, _ int64, otp *OTP) error {
	sender.sent = append(sender.sent, otp)
	return sender.err
}

type serviceFixture struct {
	service  *Service
	users    *memoryUsers
	admins   *memoryAdmins
	sessions *memorySessions
	sender   *recordingSender
}

func newServiceFixture(t *testing.T, users ...*User) *serviceFixture {
	t.Helper()
	_, client := newTestRedis(t)

	fixture := &serviceFixture{
		users:    newMemoryUsers(users...),
		admins:   newMemoryAdmins(),
		sessions: newMemorySessions(),
		sender:   &recordingSender{},
	}

	sessions := NewSessionService(fixture.sessions, newTestSigner(t), nil)
	fixture.service = NewService(fixture.users, fixture.admins, NewOTPRepository(client), sessions, fixture.sender, nil)
	return fixture
}

func seller(id int64, phone string) *User {
	return &User{ID: id, Type: UserSeller, Phone: phone, Name: locale.Text{Ar: "سكن"}}
}

/*
TestSignIn_ThenVerify walks the full phone login.
*/
func TestSignIn_ThenVerify(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, seller(5, "01012345678"))

	result, err := fixture.service.SignIn(ctx, "01012345678")
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.UserID)
	assert.Equal(t, OTPSignIn, result.OTP.Type)
	assert.Regexp(t, `^\d{6}$`, result.OTP.Code)
	require.Len(t, fixture.sender.sent, 1)

	signedIn, err := fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: result.OTP.Code, Type: OTPSignIn, UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, SessionSeller, signedIn.Session.Type)
	assert.Equal(t, int64(5), signedIn.User.ID)
	assert.NotEmpty(t, signedIn.Token)

	// The code is single use
	_, err = fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: result.OTP.Code, Type: OTPSignIn, UserID: 5})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestSignIn_UnknownPhone verifies that unknown numbers are rejected without issuing a code.
*/
func TestSignIn_UnknownPhone(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.SignIn(context.Background(), "01099999999")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Empty(t, fixture.sender.sent)
}

/*
TestVerifyOTP_Failures covers the wrong-code, wrong-type, and vanished-user paths.
*/
func TestVerifyOTP_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong_code", func(t *testing.T) {
		fixture := newServiceFixture(t, seller(5, "01012345678"))
		fixture.service.generateOTP = func() (string, error) { return "123456", nil }
		_, err := fixture.service.SendOTP(ctx, 5, OTPSignIn)
		require.NoError(t, err)

		_, err = fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: "654321", Type: OTPSignIn, UserID: 5})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("wrong_type", func(t *testing.T) {
		fixture := newServiceFixture(t, seller(5, "01012345678"))
		fixture.service.generateOTP = func() (string, error) { return "123456", nil }
		_, err := fixture.service.SendOTP(ctx, 5, OTPSignUp)
		require.NoError(t, err)

		_, err = fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: "123456", Type: OTPSignIn, UserID: 5})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("user_vanished", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.service.generateOTP = func() (string, error) { return "123456", nil }
		_, err := fixture.service.SendOTP(ctx, 77, OTPSignIn)
		require.NoError(t, err)

		_, err = fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: "123456", Type: OTPSignIn, UserID: 77})
		require.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "User", apperr.As(err).Info)
		assert.Equal(t, 0, fixture.sessions.count())
	})

	t.Run("sender_failure", func(t *testing.T) {
		fixture := newServiceFixture(t, seller(5, "01012345678"))
		fixture.sender.err = errors.New("gateway down")

		_, err := fixture.service.SendOTP(ctx, 5, OTPSignIn)
		assert.Error(t, err)
	})
}

/*
TestVerifyOTP_ConcurrentRedemption verifies that exactly one of many racing
verifications of the same code succeeds.
*/
func TestVerifyOTP_ConcurrentRedemption(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, seller(5, "01012345678"))
	fixture.service.generateOTP = func() (string, error) { return "222222", nil }

	_, err := fixture.service.SendOTP(ctx, 5, OTPSignIn)
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: "222222", Type: OTPSignIn, UserID: 5}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, fixture.sessions.count())
}

/*
TestSignUp verifies user creation, the SIGN_UP code and duplicate phones.
*/
func TestSignUp(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t)

	input := SignUpInput{
		UniversityID: 3,
		Type:         UserConsumer,
		Name:         locale.Text{Ar: "أحمد"},
		Phone:        "+201012345678",
	}

	result, err := fixture.service.SignUp(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, result.User.ID)
	assert.Equal(t, OTPSignUp, result.OTP.Type)
	require.NotNil(t, result.User.UniversityID)
	assert.Equal(t, int64(3), *result.User.UniversityID)

	// Consumers get CONSUMER sessions
	signedIn, err := fixture.service.VerifyOTP(ctx, VerifyOTPInput{Code: result.OTP.Code, Type: OTPSignUp, UserID: result.User.ID})
	require.NoError(t, err)
	assert.Equal(t, SessionConsumer, signedIn.Session.Type)

	_, err = fixture.service.SignUp(ctx, input)
	assert.True(t, apperr.HasCode(err, apperr.CodeUniqueConstraintViolation))
}

/*
TestAdminSignIn verifies password checking and the ADMIN session type.
*/
func TestAdminSignIn(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t)

	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)
	fixture.admins.admins[1] = &Admin{ID: 1, Email: "root@sakan.app", PasswordHash: hash}

	result, err := fixture.service.AdminSignIn(ctx, " Root@Sakan.app ", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, SessionAdmin, result.Session.Type)
	assert.Equal(t, int64(1), result.Admin.ID)

	_, err = fixture.service.AdminSignIn(ctx, "root@sakan.app", "wrong")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = fixture.service.AdminSignIn(ctx, "nobody@sakan.app", "wrong")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestCreateAdmin verifies that passwords are stored hashed.
*/
func TestCreateAdmin(t *testing.T) {
	fixture := newServiceFixture(t)

	admin, err := fixture.service.CreateAdmin(context.Background(), CreateAdminInput{
		Name:     locale.Text{Ar: "مدير"},
		Email:    "Ops@Sakan.app",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "ops@sakan.app", admin.Email)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", admin.PasswordHash))
}
