package command

import "github.com/mashangjie/taskmarket/internal/core/ports"

const (
	ActionCreatePayment   = "createPayment"
	ActionPaymentCallback = "paymentCallback"
)

// PaymentCommand is one of CreatePayment or PaymentCallback.
type PaymentCommand interface {
	Command
	paymentCommand()
}

type CreatePayment struct {
	OrderID string `json:"orderId" validate:"required"`
}

// PaymentCallback is the gateway's trade result. It is only honoured on the
// callback endpoint.
type PaymentCallback struct {
	OrderID    string `json:"orderId" validate:"required"`
	OutTradeNo string `json:"outTradeNo"`
	ReturnCode string `json:"returnCode" validate:"required"`
	ResultCode string `json:"resultCode"`
}

func (*CreatePayment) Action() string   { return ActionCreatePayment }
func (*PaymentCallback) Action() string { return ActionPaymentCallback }

func (*CreatePayment) paymentCommand()   {}
func (*PaymentCallback) paymentCommand() {}

var paymentCommands = map[string]func() PaymentCommand{
	ActionCreatePayment:   func() PaymentCommand { return &CreatePayment{} },
	ActionPaymentCallback: func() PaymentCommand { return &PaymentCallback{} },
}

// DecodePayment decodes a payment manager request.
func DecodePayment(body []byte) (PaymentCommand, error) {
	return decode(body, paymentCommands)
}

func (c *PaymentCallback) Input() ports.PaymentCallbackInput {
	return ports.PaymentCallbackInput{
		OrderID:    c.OrderID,
		OutTradeNo: c.OutTradeNo,
		ReturnCode: c.ReturnCode,
		ResultCode: c.ResultCode,
	}
}
