package domain

import "time"

// Gateway result code reported on a successful trade.
const GatewaySuccess = "SUCCESS"

// PaymentEvent is a deposit result received from the payment gateway.
type PaymentEvent struct {
	OrderID    string
	OutTradeNo string
	ReturnCode string
	ResultCode string
	Succeeded  bool
	ReceivedAt time.Time
}

// PaymentIntent is the request sent to the gateway to collect a deposit.
type PaymentIntent struct {
	OrderID     string
	OutTradeNo  string
	TotalFee    int64 // minor units
	Description string
}

// PaymentParams is what the client needs to complete the payment with the gateway.
type PaymentParams struct {
	OrderID    string `json:"orderId"`
	OutTradeNo string `json:"outTradeNo"`
	TotalFee   int64  `json:"totalFee"`
	PrepayID   string `json:"prepayId"`
	NonceStr   string `json:"nonceStr"`
	TimeStamp  string `json:"timeStamp"`
	Package    string `json:"package"`
	SignType   string `json:"signType"`
	PaySign    string `json:"paySign"`
}

// Payout is the instruction handed to the external payout collaborator.
type Payout struct {
	OrderID     string
	DeveloperID string
	Amount      float64
}
