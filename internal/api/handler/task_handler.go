package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/api/command"
	"github.com/mashangjie/taskmarket/internal/api/response"
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const managerTask = "task"

// TaskHandler serves the task manager actions.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Dispatch handles POST /api/v1/task.
//
// @Summary      Task manager
// @Description  Actions: create, list, detail, myPublished, myGrabbed, grab, cancel, aiEstimate.
// @Description  list, detail and aiEstimate accept anonymous callers.
// @Tags         task
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      command.CreateTask  true  "Action and its fields"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /api/v1/task [post]
func (h *TaskHandler) Dispatch(c echo.Context) error {
	cmd, err := decodeCommand(c, managerTask, command.DecodeTask)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	caller := ctxCaller(c)

	var data any
	switch cmd := cmd.(type) {
	case *command.CreateTask:
		data, err = h.service.Create(ctx, caller, cmd.Input())
	case *command.ListTasks:
		data, err = h.service.List(ctx, cmd.Input())
	case *command.TaskDetail:
		data, err = h.service.Detail(ctx, cmd.TaskID)
	case *command.MyPublished:
		data, err = h.service.MyPublished(ctx, caller)
	case *command.MyGrabbed:
		data, err = h.service.MyGrabbed(ctx, caller)
	case *command.GrabTask:
		data, err = h.service.Grab(ctx, caller, cmd.TaskID)
	case *command.CancelTask:
		data, err = h.service.Cancel(ctx, caller, cmd.TaskID)
	case *command.EstimatePrice:
		data, err = h.service.Estimate(cmd.Input())
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownAction, cmd.Action())
	}
	return respond(c, managerTask, cmd.Action(), response.OK(data), err)
}
