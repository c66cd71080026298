// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identity and session management.

Consumers and sellers sign in with their phone number and a one-time password;
admins sign in with email and password. Both end with a server-side session
whose signed token travels as a bearer header or the connect.sid cookie.

Architecture:

  - Service: Orchestrates sign-in, sign-up, OTP verification and sign-out.
  - SessionService: Creates, validates, renews and invalidates sessions.
  - Guard: Resolves a request token to a [Principal].
  - Repository: Postgres (users, admins, sessions) and Redis (OTP codes).
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	"github.com/taibuivan/sakan/internal/platform/sec"
	"github.com/taibuivan/sakan/pkg/locale"
)

// Service implements the authentication use cases.
type Service struct {
	userRepository  UserRepository
	adminRepository AdminRepository
	otpRepository   OTPRepository
	sessions        *SessionService
	sender          OTPSender
	metrics         *metrics.Metrics
	generateOTP     func() (string, error)
	now             func() time.Time
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	adminRepo AdminRepository,
	otpRepo OTPRepository,
	sessions *SessionService,
	sender OTPSender,
	recorder *metrics.Metrics,
) *Service {
	if sender == nil {
		sender = LogOTPSender{}
	}
	return &Service{
		userRepository:  userRepo,
		adminRepository: adminRepo,
		otpRepository:   otpRepo,
		sessions:        sessions,
		sender:          sender,
		metrics:         recorder,
		generateOTP:     sec.GenerateOTP,
		now:             time.Now,
	}
}

// Sessions exposes the session service for the guard and the operator CLI.
func (service *Service) Sessions() *SessionService {
	return service.sessions
}

// # OTP Flow

/*
SendOTP issues a six-digit code for a user and flow.

Description: The code is cached for OTPTTL, handed to the configured
[OTPSender] and returned to the caller.

Parameters:
  - context: context.Context
  - userID: int64
  - otpType: OTPType

Returns:
  - *OTP: The issued code and its expiry
  - error: Generation, cache or delivery failures
*/
func (service *Service) SendOTP(context context.Context, userID int64, otpType OTPType) (*OTP, error) {
	code, err := service.generateOTP()
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_otp_failed: %w", err)
	}

	if err := service.otpRepository.Set(context, otpKey(userID, otpType, code), code, OTPTTL); err != nil {
		return nil, fmt.Errorf("auth_service_store_otp_failed: %w", err)
	}

	otp := &OTP{
		Code:      code,
		ExpiresAt: service.now().Add(OTPTTL),
		Type:      otpType,
	}

	if err := service.sender.Send(context, userID, otp); err != nil {
		return nil, fmt.Errorf("auth_service_send_otp_failed: %w", err)
	}

	service.metrics.RecordOTPIssued(string(otpType))
	ctxutil.GetLogger(context).InfoContext(context, "otp_sent",
		slog.Int64("user_id", userID),
		slog.String("type", string(otpType)),
	)

	return otp, nil
}

// VerifyOTPInput is the payload of an OTP redemption.
type VerifyOTPInput struct {
	Code   string
	Type   OTPType
	UserID int64
}

// SignedIn is the result of a successful user login.
type SignedIn struct {
	Session *Session
	Token   string
	User    *User
}

/*
VerifyOTP redeems a code and opens a session for its user.

Parameters:
  - context: context.Context
  - input: VerifyOTPInput

Returns:
  - *SignedIn: Session, signed token and user
  - error: NotFound("OTP"), Unauthorized("OTP"), NotFound("User") or storage failures
*/
func (service *Service) VerifyOTP(context context.Context, input VerifyOTPInput) (*SignedIn, error) {
	stored, err := service.otpRepository.Take(context, otpKey(input.UserID, input.Type, input.Code))
	if err != nil {
		if apperr.IsNotFound(err) {
			service.metrics.RecordOTPVerification(string(input.Type), "missing")
		}
		return nil, err
	}

	if stored != input.Code {
		service.metrics.RecordOTPVerification(string(input.Type), "mismatch")
		return nil, apperr.Unauthorized("OTP")
	}

	user, err := service.userRepository.FindByID(context, input.UserID)
	if err != nil {
		return nil, err
	}

	session, token, err := service.sessions.CreateSession(context, user.ID, SessionTypeFor(user.Type))
	if err != nil {
		return nil, err
	}

	service.metrics.RecordOTPVerification(string(input.Type), "verified")
	return &SignedIn{Session: session, Token: token, User: user}, nil
}

// # Sign In / Sign Up

// SignInResult carries the issued code of a sign-in attempt.
type SignInResult struct {
	OTP    *OTP
	UserID int64
}

/*
SignIn starts a login for the user registered with a phone number.

Returns:
  - *SignInResult: The issued SIGN_IN code and the user id to verify it against
  - error: apperr.Unauthorized("Phone") for unknown numbers
*/
func (service *Service) SignIn(context context.Context, phone string) (*SignInResult, error) {
	user, err := service.userRepository.FindByPhone(context, strings.TrimSpace(phone))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Phone")
		}
		return nil, err
	}

	otp, err := service.SendOTP(context, user.ID, OTPSignIn)
	if err != nil {
		return nil, err
	}

	return &SignInResult{OTP: otp, UserID: user.ID}, nil
}

// SignUpInput holds the data required to register a user.
type SignUpInput struct {
	UniversityID int64
	Type         UserType
	SubType      *UserSubType
	Name         locale.Text
	Phone        string
}

// SignUpResult carries the created user and its SIGN_UP code.
type SignUpResult struct {
	User *User
	OTP  *OTP
}

/*
SignUp registers a user and sends the code that confirms the phone number.

Parameters:
  - context: context.Context
  - input: SignUpInput (validated by the handler)

Returns:
  - *SignUpResult: Created user and issued code
  - error: UniqueConstraintViolation("Phone"), NotFound("University") or storage failures
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*SignUpResult, error) {
	universityID := input.UniversityID
	user := &User{
		Type:         input.Type,
		SubType:      input.SubType,
		Name:         input.Name,
		Phone:        strings.TrimSpace(input.Phone),
		UniversityID: &universityID,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_signed_up",
		slog.Int64("user_id", user.ID),
		slog.String("type", string(user.Type)),
	)

	otp, err := service.SendOTP(context, user.ID, OTPSignUp)
	if err != nil {
		return nil, err
	}

	return &SignUpResult{User: user, OTP: otp}, nil
}

// SignOut invalidates the session of a signed token.
func (service *Service) SignOut(context context.Context, token string) error {
	return service.sessions.InvalidateSession(context, token)
}

// # Admin Flow

// AdminSignedIn is the result of a successful admin login.
type AdminSignedIn struct {
	Session *Session
	Token   string
	Admin   *Admin
}

/*
AdminSignIn checks admin credentials and opens an ADMIN session.

Returns:
  - *AdminSignedIn: Session, signed token and admin
  - error: apperr.Unauthorized("Credentials") for unknown emails or wrong passwords
*/
func (service *Service) AdminSignIn(context context.Context, email, password string) (*AdminSignedIn, error) {
	admin, err := service.adminRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperr.Unauthorized("Credentials")
	}

	session, token, err := service.sessions.CreateSession(context, admin.ID, SessionAdmin)
	if err != nil {
		return nil, err
	}

	return &AdminSignedIn{Session: session, Token: token, Admin: admin}, nil
}

// CreateAdminInput holds the data of a new back-office account.
type CreateAdminInput struct {
	SuperID  *int64
	Name     locale.Text
	Email    string
	Password string
}

// CreateAdmin hashes the password and stores a new admin.
func (service *Service) CreateAdmin(context context.Context, input CreateAdminInput) (*Admin, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	admin := &Admin{
		SuperID:      input.SuperID,
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hashedPassword,
	}

	if err := service.adminRepository.Create(context, admin); err != nil {
		return nil, err
	}

	return admin, nil
}
