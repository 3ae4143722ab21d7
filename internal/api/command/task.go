package command

import (
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const (
	ActionCreate      = "create"
	ActionList        = "list"
	ActionDetail      = "detail"
	ActionMyPublished = "myPublished"
	ActionMyGrabbed   = "myGrabbed"
	ActionGrab        = "grab"
	ActionCancel      = "cancel"
	ActionAIEstimate  = "aiEstimate"
)

// TaskCommand is one of the task manager commands.
type TaskCommand interface {
	Command
	taskCommand()
}

type CreateTask struct {
	Title            string             `json:"title" validate:"required"`
	Description      string             `json:"description"`
	BudgetRange      domain.BudgetRange `json:"budgetRange"`
	Deadline         string             `json:"deadline"`
	TechStack        []string           `json:"techStack"`
	FinalPrice       domain.Number      `json:"finalPrice" validate:"gte=0"`
	AISuggestedPrice domain.Number      `json:"aiSuggestedPrice" validate:"gte=0"`
}

// TaskFilter narrows the public task list. All fields are optional.
type TaskFilter struct {
	Status    domain.TaskStatus `json:"status"`
	MaxPrice  *domain.Number    `json:"maxPrice"`
	TechStack []string          `json:"techStack"`
}

type ListTasks struct {
	Filter *TaskFilter `json:"filter"`
}

type TaskDetail struct {
	TaskID string `json:"taskId" validate:"required"`
}

type MyPublished struct{}

type MyGrabbed struct{}

type GrabTask struct {
	TaskID string `json:"taskId" validate:"required"`
}

type CancelTask struct {
	TaskID string `json:"taskId" validate:"required"`
}

type EstimatePrice struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	BudgetRange domain.BudgetRange `json:"budgetRange"`
	TechStack   []string           `json:"techStack"`
}

func (*CreateTask) Action() string    { return ActionCreate }
func (*ListTasks) Action() string     { return ActionList }
func (*TaskDetail) Action() string    { return ActionDetail }
func (*MyPublished) Action() string   { return ActionMyPublished }
func (*MyGrabbed) Action() string     { return ActionMyGrabbed }
func (*GrabTask) Action() string      { return ActionGrab }
func (*CancelTask) Action() string    { return ActionCancel }
func (*EstimatePrice) Action() string { return ActionAIEstimate }

func (*CreateTask) taskCommand()    {}
func (*ListTasks) taskCommand()     {}
func (*TaskDetail) taskCommand()    {}
func (*MyPublished) taskCommand()   {}
func (*MyGrabbed) taskCommand()     {}
func (*GrabTask) taskCommand()      {}
func (*CancelTask) taskCommand()    {}
func (*EstimatePrice) taskCommand() {}

var taskCommands = map[string]func() TaskCommand{
	ActionCreate:      func() TaskCommand { return &CreateTask{} },
	ActionList:        func() TaskCommand { return &ListTasks{} },
	ActionDetail:      func() TaskCommand { return &TaskDetail{} },
	ActionMyPublished: func() TaskCommand { return &MyPublished{} },
	ActionMyGrabbed:   func() TaskCommand { return &MyGrabbed{} },
	ActionGrab:        func() TaskCommand { return &GrabTask{} },
	ActionCancel:      func() TaskCommand { return &CancelTask{} },
	ActionAIEstimate:  func() TaskCommand { return &EstimatePrice{} },
}

// DecodeTask decodes a task manager request.
func DecodeTask(body []byte) (TaskCommand, error) {
	return decode(body, taskCommands)
}

func (c *CreateTask) Input() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:            c.Title,
		Description:      c.Description,
		BudgetRange:      c.BudgetRange,
		Deadline:         c.Deadline,
		TechStack:        c.TechStack,
		FinalPrice:       c.FinalPrice.Float(),
		AISuggestedPrice: c.AISuggestedPrice.Float(),
	}
}

// Input returns the list filters; a missing filter lists the open tasks.
func (c *ListTasks) Input() ports.ListTasksInput {
	if c.Filter == nil {
		return ports.ListTasksInput{}
	}
	var maxPrice *float64
	if c.Filter.MaxPrice != nil {
		v := c.Filter.MaxPrice.Float()
		maxPrice = &v
	}
	return ports.ListTasksInput{
		Status:    c.Filter.Status,
		MaxPrice:  maxPrice,
		TechStack: c.Filter.TechStack,
	}
}

func (c *EstimatePrice) Input() ports.EstimateInput {
	return ports.EstimateInput{
		Title:       c.Title,
		Description: c.Description,
		BudgetRange: c.BudgetRange,
		TechStack:   c.TechStack,
	}
}
