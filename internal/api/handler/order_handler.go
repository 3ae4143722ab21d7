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

const managerOrder = "order"

// OrderHandler serves the order manager actions.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Dispatch handles POST /api/v1/order.
//
// @Summary      Order manager
// @Description  Actions: create, myOrders, submitComplete, confirmComplete.
// @Tags         order
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      command.CreateOrder  true  "Action and its fields"
// @Success      200   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /api/v1/order [post]
func (h *OrderHandler) Dispatch(c echo.Context) error {
	cmd, err := decodeCommand(c, managerOrder, command.DecodeOrder)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	caller := ctxCaller(c)

	var body response.Envelope
	switch cmd := cmd.(type) {
	case *command.CreateOrder:
		var order *domain.Order
		order, err = h.service.Create(ctx, caller, cmd.TaskID)
		if err == nil {
			metrics.OrdersCreatedTotal.Inc()
		}
		body = response.OK(order)
	case *command.MyOrders:
		var orders []domain.OrderView
		orders, err = h.service.MyOrders(ctx, caller)
		body = response.OK(orders)
	case *command.SubmitComplete:
		err = h.service.SubmitComplete(ctx, caller, cmd.TaskID)
		body = response.Message("work submitted")
	case *command.ConfirmComplete:
		err = h.service.ConfirmComplete(ctx, caller, cmd.TaskID)
		body = response.Message("task completed")
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownAction, cmd.Action())
	}
	return respond(c, managerOrder, cmd.Action(), body, err)
}
