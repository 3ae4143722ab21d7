package command

import "github.com/mashangjie/taskmarket/internal/core/ports"

const ActionGetUserReviews = "getUserReviews"

// ReviewCommand is one of CreateReview or UserReviews.
type ReviewCommand interface {
	Command
	reviewCommand()
}

type CreateReview struct {
	TaskID  string   `json:"taskId" validate:"required"`
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Tags    []string `json:"tags"`
}

type UserReviews struct {
	UserID string `json:"userId" validate:"required"`
}

func (*CreateReview) Action() string { return ActionCreate }
func (*UserReviews) Action() string  { return ActionGetUserReviews }

func (*CreateReview) reviewCommand() {}
func (*UserReviews) reviewCommand()  {}

var reviewCommands = map[string]func() ReviewCommand{
	ActionCreate:         func() ReviewCommand { return &CreateReview{} },
	ActionGetUserReviews: func() ReviewCommand { return &UserReviews{} },
}

// DecodeReview decodes a review manager request.
func DecodeReview(body []byte) (ReviewCommand, error) {
	return decode(body, reviewCommands)
}

func (c *CreateReview) Input() ports.CreateReviewInput {
	return ports.CreateReviewInput{
		TaskID:  c.TaskID,
		Rating:  c.Rating,
		Comment: c.Comment,
		Tags:    c.Tags,
	}
}
