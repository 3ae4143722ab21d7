package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskGrabbed   TaskStatus = "grabbed"
	TaskWorking   TaskStatus = "working"
	TaskSubmitted TaskStatus = "submitted"
	TaskCompleted TaskStatus = "completed"
	TaskCancelled TaskStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Cancellation is only possible before a developer grabs the task.
var validTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:   {TaskGrabbed, TaskCancelled},
	TaskGrabbed:   {TaskWorking, TaskSubmitted},
	TaskWorking:   {TaskSubmitted},
	TaskSubmitted: {TaskCompleted},
}

var ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrInvalidState)

// OpenTaskStatuses is the status set used by list when no status filter is given.
var OpenTaskStatuses = []TaskStatus{TaskPending, TaskGrabbed, TaskWorking, TaskSubmitted}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskGrabbed, TaskWorking, TaskSubmitted, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// SourcesFor returns every status that may legally move to next.
func SourcesFor(next TaskStatus) []TaskStatus {
	var from []TaskStatus
	for s, targets := range validTransitions {
		for _, t := range targets {
			if t == next {
				from = append(from, s)
			}
		}
	}
	return from
}

// BudgetRange is the customer's acceptable price window.
type BudgetRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Task is the aggregate root for a posted development job.
type Task struct {
	ID               string      `json:"id" bson:"_id"`
	CustomerID       string      `json:"customerId" bson:"customer_id"`
	DeveloperID      string      `json:"developerId,omitempty" bson:"developer_id,omitempty"`
	Title            string      `json:"title" bson:"title"`
	Description      string      `json:"description" bson:"description"`
	BudgetRange      BudgetRange `json:"budgetRange" bson:"budget_range"`
	Deadline         string      `json:"deadline,omitempty" bson:"deadline,omitempty"`
	TechStack        []string    `json:"techStack" bson:"tech_stack"`
	AISuggestedPrice float64     `json:"aiSuggestedPrice" bson:"ai_suggested_price"`
	FinalPrice       float64     `json:"finalPrice" bson:"final_price"`
	Status           TaskStatus  `json:"status" bson:"status"`
	CreatedAt        time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" bson:"updated_at"`
}

// IsParticipant reports whether userID is the customer or the assigned developer.
func (t *Task) IsParticipant(userID string) bool {
	return userID != "" && (t.CustomerID == userID || t.DeveloperID == userID)
}

// Counterparty returns the participant on the other side of userID.
func (t *Task) Counterparty(userID string) string {
	if t.CustomerID == userID {
		return t.DeveloperID
	}
	return t.CustomerID
}

// Price is the agreed amount: the final price when set, otherwise the suggested one.
func (t *Task) Price() float64 {
	if t.FinalPrice != 0 {
		return t.FinalPrice
	}
	return t.AISuggestedPrice
}

// TaskChange describes the fields written together with a status transition.
type TaskChange struct {
	Status      TaskStatus
	DeveloperID string // set only when non-empty
}
