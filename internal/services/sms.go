package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// SMSSender delivers OTP codes out of band
type SMSSender interface {
	SendOTP(ctx context.Context, phone, code string) error
	Configured() bool
	Name() string
}

// GatewayConfig configures a Fast2SMS-style HTTP SMS gateway
type GatewayConfig struct {
	URL      string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

type gatewayRequest struct {
	Route    string `json:"route"`
	SenderID string `json:"sender_id,omitempty"`
	Message  string `json:"message"`
	Numbers  string `json:"numbers"`
}

type gatewayResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// GatewaySender posts OTP messages to an HTTP SMS gateway
type GatewaySender struct {
	httpClient *resty.Client
	url        string
	senderID   string
	configured bool
	logger     *zap.Logger
}

// NewGatewaySender creates the HTTP gateway sender
func NewGatewaySender(cfg GatewayConfig, logger *zap.Logger) *GatewaySender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("authorization", cfg.APIKey)

	return &GatewaySender{
		httpClient: client,
		url:        cfg.URL,
		senderID:   cfg.SenderID,
		configured: cfg.URL != "" && cfg.APIKey != "",
		logger:     logger,
	}
}

func (g *GatewaySender) Name() string { return "gateway" }

func (g *GatewaySender) Configured() bool { return g.configured }

func (g *GatewaySender) SendOTP(ctx context.Context, phone, code string) error {
	if !g.configured {
		return &DeliveryError{
			Provider: g.Name(),
			Message:  "SMS service is not configured. Please contact your administrator.",
			Err:      ErrSMSNotConfigured,
		}
	}

	var result gatewayResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(gatewayRequest{
			Route:    "q",
			SenderID: g.senderID,
			Message:  otpMessage(code),
			Numbers:  phone,
		}).
		SetResult(&result).
		Post(g.url)
	if err != nil {
		g.logger.Error("SMS gateway call failed", zap.String("to", utils.MaskPhone(phone)), zap.Error(err))
		return &DeliveryError{Provider: g.Name(), Message: "Failed to send OTP. Please try again later.", Err: err}
	}

	if resp.IsError() || !result.Return {
		g.logger.Error("SMS gateway rejected message",
			zap.String("to", utils.MaskPhone(phone)),
			zap.Int("status_code", resp.StatusCode()),
			zap.ByteString("message", result.Message),
		)
		return &DeliveryError{
			Provider: g.Name(),
			Code:     resp.StatusCode(),
			Message:  "Failed to send OTP. Please try again later.",
			Err:      fmt.Errorf("gateway returned status %d", resp.StatusCode()),
		}
	}

	g.logger.Info("OTP SMS sent", zap.String("to", utils.MaskPhone(phone)), zap.String("request_id", result.RequestID))
	return nil
}

// ConsoleSender writes codes to the log instead of sending them. Only for
// local development; it must be selected explicitly.
type ConsoleSender struct {
	logger *zap.Logger
}

func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (c *ConsoleSender) Name() string { return "console" }

func (c *ConsoleSender) Configured() bool { return true }

func (c *ConsoleSender) SendOTP(ctx context.Context, phone, code string) error {
	c.logger.Warn("OTP (console delivery)", zap.String("phone", phone), zap.String("otp", code))
	return nil
}
