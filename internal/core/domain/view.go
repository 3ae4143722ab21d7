package domain

// TaskView is a task enriched with the public profiles of its participants.
type TaskView struct {
	*Task
	CustomerInfo  *PublicProfile `json:"customerInfo,omitempty"`
	DeveloperInfo *PublicProfile `json:"developerInfo,omitempty"`
	// OtherUserInfo is set on the caller-scoped listings.
	OtherUserInfo *PublicProfile `json:"otherUserInfo,omitempty"`
}

// OrderView is an order enriched with its task and the counterparty's profile.
type OrderView struct {
	*Order
	TaskInfo      *Task          `json:"taskInfo,omitempty"`
	OtherUserInfo *PublicProfile `json:"otherUserInfo,omitempty"`
}

// TaskSummary is the short task description attached to reviews.
type TaskSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReviewView is a review enriched with its author and task.
type ReviewView struct {
	*Review
	FromUserInfo *PublicProfile `json:"fromUserInfo,omitempty"`
	TaskInfo     *TaskSummary   `json:"taskInfo,omitempty"`
}
