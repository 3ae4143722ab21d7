package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/api/command"
	"github.com/mashangjie/taskmarket/internal/api/response"
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const managerUser = "user"

// UserHandler serves the user manager actions.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Dispatch handles POST /api/v1/user.
//
// @Summary      User manager
// @Description  Actions: register, getProfile, updateProfile.
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      command.Register  true  "Action and its fields"
// @Success      200   {object}  response.Envelope{data=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/user [post]
func (h *UserHandler) Dispatch(c echo.Context) error {
	cmd, err := decodeCommand(c, managerUser, command.DecodeUser)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	caller := ctxCaller(c)

	var user *domain.User
	switch cmd := cmd.(type) {
	case *command.Register:
		user, err = h.service.Register(ctx, caller, cmd.Input())
	case *command.GetProfile:
		user, err = h.service.GetProfile(ctx, caller)
	case *command.UpdateProfile:
		user, err = h.service.UpdateProfile(ctx, caller, cmd.Update())
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownAction, cmd.Action())
	}
	return respond(c, managerUser, cmd.Action(), response.OK(user), err)
}
