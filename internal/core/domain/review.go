package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left by one task participant for the other.
type Review struct {
	ID         string    `json:"id" bson:"_id"`
	TaskID     string    `json:"taskId" bson:"task_id"`
	OrderID    string    `json:"orderId,omitempty" bson:"order_id,omitempty"`
	FromUserID string    `json:"fromUserId" bson:"from_user_id"`
	ToUserID   string    `json:"toUserId" bson:"to_user_id"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment" bson:"comment"`
	Tags       []string  `json:"tags" bson:"tags"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// RatingStats is the aggregate of all ratings a user has received.
type RatingStats struct {
	Sum   int64
	Count int64
}

// Average returns the mean rating rounded half-up to one decimal place.
// The division is done in integer tenths so 4.25 rounds to 4.3.
// With no ratings the default rating is returned.
func (s RatingStats) Average() float64 {
	if s.Count <= 0 {
		return DefaultRating
	}
	tenths := (s.Sum*20 + s.Count) / (2 * s.Count)
	return float64(tenths) / 10
}
