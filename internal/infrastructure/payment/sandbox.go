// Package payment holds the payment gateway adapters.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

const signType = "HMAC-SHA256"

// SandboxGateway issues payment parameters without contacting a real provider.
// Deposits are completed by posting the gateway callback to the service.
type SandboxGateway struct {
	secret []byte
	now    func() time.Time
	log    zerolog.Logger
}

func NewSandboxGateway(secret string, log zerolog.Logger) *SandboxGateway {
	return &SandboxGateway{secret: []byte(secret), now: time.Now, log: log}
}

// CreateIntent returns client-side payment parameters for the intent.
func (g *SandboxGateway) CreateIntent(_ context.Context, intent domain.PaymentIntent) (*domain.PaymentParams, error) {
	if intent.TotalFee <= 0 {
		return nil, fmt.Errorf("create intent: %w: total fee must be positive", domain.ErrInvalidInput)
	}

	params := &domain.PaymentParams{
		OrderID:    intent.OrderID,
		OutTradeNo: intent.OutTradeNo,
		TotalFee:   intent.TotalFee,
		PrepayID:   "sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		NonceStr:   strings.ReplaceAll(uuid.NewString(), "-", ""),
		TimeStamp:  strconv.FormatInt(g.now().Unix(), 10),
		SignType:   signType,
	}
	params.Package = "prepay_id=" + params.PrepayID
	params.PaySign = Sign(g.secret, []byte(params.NonceStr+params.Package+params.TimeStamp))

	g.log.Debug().
		Str("out_trade_no", intent.OutTradeNo).
		Str("prepay_id", params.PrepayID).
		Msg("sandbox intent issued")
	return params, nil
}

// Sign returns the hex HMAC-SHA256 of payload under the gateway secret.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the valid hex HMAC-SHA256 of payload.
func Verify(secret, payload []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), want)
}
