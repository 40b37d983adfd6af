package tourauth

import (
	"context"
	"fmt"
)

// StartPhoneVerification asks the configured SMS provider to send a
// verification code to the phone number. The engine is a pass-through: it
// interprets nothing about the provider exchange beyond success or failure.
func (e *Engine) StartPhoneVerification(ctx context.Context, phoneNumber, channel string) error {
	if e == nil || e.smsVerifier == nil {
		return ErrEngineNotReady
	}
	if phoneNumber == "" {
		return ErrMissingFields
	}
	if channel == "" {
		channel = "sms"
	}

	err := e.smsVerifier.StartVerification(ctx, phoneNumber, channel)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSMSVerification, err)
	}

	e.metricInc(MetricPhoneVerifyStart)
	e.emitAudit(ctx, auditEventPhoneVerifyStart, err == nil, "", err, func() map[string]string {
		return map[string]string{"channel": channel}
	})

	return err
}

// CheckPhoneVerification forwards a user-supplied code to the SMS provider
// for verification and reports the provider's verdict.
func (e *Engine) CheckPhoneVerification(ctx context.Context, phoneNumber, code string) error {
	if e == nil || e.smsVerifier == nil {
		return ErrEngineNotReady
	}
	if phoneNumber == "" || code == "" {
		return ErrMissingFields
	}

	err := e.smsVerifier.CheckVerification(ctx, phoneNumber, code)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSMSVerification, err)
	}

	e.metricInc(MetricPhoneVerifyCheck)
	e.emitAudit(ctx, auditEventPhoneVerifyCheck, err == nil, "", err, nil)

	return err
}
