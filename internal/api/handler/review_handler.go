package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/api/command"
	"github.com/mashangjie/taskmarket/internal/api/metrics"
	"github.com/mashangjie/taskmarket/internal/api/response"
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const managerReview = "review"

// ReviewHandler serves the review manager actions.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Dispatch handles POST /api/v1/review.
//
// @Summary      Review manager
// @Description  Actions: create, getUserReviews. getUserReviews accepts anonymous callers.
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      command.CreateReview  true  "Action and its fields"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /api/v1/review [post]
func (h *ReviewHandler) Dispatch(c echo.Context) error {
	cmd, err := decodeCommand(c, managerReview, command.DecodeReview)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var data any
	switch cmd := cmd.(type) {
	case *command.CreateReview:
		var review *domain.Review
		review, err = h.service.Create(ctx, ctxCaller(c), cmd.Input())
		if err == nil {
			metrics.ReviewsCreatedTotal.Inc()
		}
		data = review
	case *command.UserReviews:
		data, err = h.service.UserReviews(ctx, cmd.UserID)
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownAction, cmd.Action())
	}
	return respond(c, managerReview, cmd.Action(), response.OK(data), err)
}
