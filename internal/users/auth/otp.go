// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/sakan/internal/platform/ctxutil"
)

// OTPSender delivers an issued code to its owner.
type OTPSender interface {
	Send(context context.Context, userID int64, otp *OTP) error
}

// LogOTPSender writes codes to the request logger. It is the sender used until
// an SMS gateway is wired in.
type LogOTPSender struct{}

// Send logs the code at debug level.
func (LogOTPSender) Send(context context.Context, userID int64, otp *OTP) error {
	ctxutil.GetLogger(context).DebugContext(context, "otp_logged",
		slog.Int64("user_id", userID),
		slog.String("type", string(otp.Type)),
		slog.String("code", otp.Code),
	)
	return nil
}
