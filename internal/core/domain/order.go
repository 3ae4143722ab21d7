package domain

import (
	"math"
	"time"
)

// DepositStatus tracks the escrow deposit paid by the customer.
type DepositStatus string

const (
	DepositPending DepositStatus = "pending"
	DepositPaid    DepositStatus = "paid"
)

// PaymentStatus tracks the payout to the developer. An order sits in
// PaymentSettling between confirmation and a successful payout.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSettling PaymentStatus = "settling"
	PaymentPaid     PaymentStatus = "paid"
)

// PlatformFeeRate is the share of the amount retained by the platform.
const PlatformFeeRate = 0.10

// Order is the money record attached 1:1 to a grabbed task.
type Order struct {
	ID              string        `json:"id" bson:"_id"`
	TaskID          string        `json:"taskId" bson:"task_id"`
	CustomerID      string        `json:"customerId" bson:"customer_id"`
	DeveloperID     string        `json:"developerId" bson:"developer_id"`
	Amount          float64       `json:"amount" bson:"amount"`
	PlatformFee     float64       `json:"platformFee" bson:"platform_fee"`
	DeveloperAmount float64       `json:"developerAmount" bson:"developer_amount"`
	DepositStatus   DepositStatus `json:"depositStatus" bson:"deposit_status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bson:"payment_status"`
	OutTradeNo      string        `json:"outTradeNo,omitempty" bson:"out_trade_no,omitempty"`
	DepositPaidAt   *time.Time    `json:"depositPaidAt,omitempty" bson:"deposit_paid_at,omitempty"`
	CompletedAt     *time.Time    `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	SettledAt       *time.Time    `json:"settledAt,omitempty" bson:"settled_at,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
}

// IsParticipant reports whether userID is the customer or the developer.
func (o *Order) IsParticipant(userID string) bool {
	return userID != "" && (o.CustomerID == userID || o.DeveloperID == userID)
}

// Counterparty returns the participant on the other side of userID.
func (o *Order) Counterparty(userID string) string {
	if o.CustomerID == userID {
		return o.DeveloperID
	}
	return o.CustomerID
}

// RoundHalfUp rounds to the nearest integer with halves going up, the way
// JavaScript's Math.round does (negative halves round toward +Inf).
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// SplitAmount returns the platform fee and the developer's net amount.
func SplitAmount(amount float64) (fee, developer float64) {
	fee = RoundHalfUp(float64(amount * PlatformFeeRate))
	return fee, amount - fee
}

// ToCents converts a currency amount to the integer minor unit sent to the gateway.
func ToCents(amount float64) int64 {
	return int64(RoundHalfUp(float64(amount * 100)))
}

// NewOrder builds a pending order for a grabbed task.
func NewOrder(id string, task *Task, now time.Time) *Order {
	amount := task.Price()
	fee, dev := SplitAmount(amount)
	return &Order{
		ID:              id,
		TaskID:          task.ID,
		CustomerID:      task.CustomerID,
		DeveloperID:     task.DeveloperID,
		Amount:          amount,
		PlatformFee:     fee,
		DeveloperAmount: dev,
		DepositStatus:   DepositPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
	}
}
