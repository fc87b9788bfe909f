package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// Twilio error codes with dedicated user-facing messages
const (
	twilioInvalidToNumber   = 21211
	twilioInvalidFromNumber = 21606
	twilioUnverifiedNumber  = 21608
)

// messageAPI is the slice of the Twilio client the service uses
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioConfig carries the account credentials and sender number
type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	From              string
	StatusCallbackURL string
	Timeout           time.Duration
}

// Configured mirrors Twilio's own credential shape check
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" &&
		c.AuthToken != "" &&
		c.From != "" &&
		len(c.AccountSID) > 2 && c.AccountSID[:2] == "AC" &&
		c.AccountSID != "your_account_sid_here"
}

// TwilioService sends OTP codes as SMS through Twilio
type TwilioService struct {
	api            messageAPI
	from           string
	statusCallback string
	configured     bool
	logger         *zap.Logger
}

// NewTwilioService creates the SMS sender. Missing credentials are not an
// error here; SendOTP reports ErrSMSNotConfigured instead.
func NewTwilioService(cfg TwilioConfig, logger *zap.Logger) *TwilioService {
	svc := &TwilioService{
		from:           cfg.From,
		statusCallback: cfg.StatusCallbackURL,
		configured:     cfg.Configured(),
		logger:         logger,
	}
	if !svc.configured {
		logger.Warn("Twilio is NOT configured, OTP delivery will fail")
		return svc
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}
	svc.api = rest.Api
	return svc
}

func (t *TwilioService) Name() string { return "twilio" }

func (t *TwilioService) Configured() bool { return t.configured }

// SendOTP delivers the code to an Indian mobile number
func (t *TwilioService) SendOTP(ctx context.Context, phone, code string) error {
	if !t.configured || t.api == nil {
		return &DeliveryError{
			Provider: t.Name(),
			Message:  "SMS service is not configured. Please contact your administrator.",
			Err:      ErrSMSNotConfigured,
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := utils.ToE164(phone)
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(otpMessage(code))
	if t.statusCallback != "" {
		params.SetStatusCallback(t.statusCallback)
	}

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		derr := mapTwilioError(err)
		t.logger.Error("Twilio SMS failed",
			zap.String("to", utils.MaskPhone(phone)),
			zap.Int("code", derr.Code),
			zap.Error(err),
		)
		return derr
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Info("OTP SMS sent", zap.String("to", utils.MaskPhone(phone)), zap.String("sid", sid))
	return nil
}

func otpMessage(code string) string {
	return fmt.Sprintf("Your NCO Search verification code is: %s. Valid for 5 minutes. Do not share this code with anyone.", code)
}

// mapTwilioError turns a Twilio REST error into a user-facing DeliveryError
func mapTwilioError(err error) *DeliveryError {
	derr := &DeliveryError{Provider: "twilio", Err: err}

	var restErr *client.TwilioRestError
	if !errors.As(err, &restErr) {
		derr.Message = "Failed to send OTP. Please try again later."
		return derr
	}

	derr.Code = restErr.Code
	switch restErr.Code {
	case twilioInvalidToNumber:
		derr.Message = "Invalid phone number format. Please check the number and try again."
	case twilioUnverifiedNumber:
		derr.Message = "This phone number is not verified. In trial mode, you must verify your phone number in the Twilio console first."
	case twilioInvalidFromNumber:
		derr.Message = `The "From" phone number is not a valid Twilio number. Please check your Twilio phone number configuration.`
	default:
		derr.Message = fmt.Sprintf("Failed to send OTP: %s", restErr.Message)
	}
	return derr
}
