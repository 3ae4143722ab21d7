package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/api/command"
	"github.com/mashangjie/taskmarket/internal/api/metrics"
	"github.com/mashangjie/taskmarket/internal/api/response"
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const managerPayment = "payment"

// PaymentHandler serves the payment manager actions and the gateway callback.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Dispatch handles POST /api/v1/payment.
//
// @Summary      Payment manager
// @Description  Actions: createPayment. paymentCallback is only accepted on /api/v1/payment/callback.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      command.CreatePayment  true  "Action and its fields"
// @Success      200   {object}  response.Envelope{data=domain.PaymentParams}
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /api/v1/payment [post]
func (h *PaymentHandler) Dispatch(c echo.Context) error {
	cmd, err := decodeCommand(c, managerPayment, command.DecodePayment)
	if err != nil {
		return err
	}

	var params *domain.PaymentParams
	switch cmd := cmd.(type) {
	case *command.CreatePayment:
		params, err = h.service.CreatePayment(c.Request().Context(), ctxCaller(c), cmd.OrderID)
	case *command.PaymentCallback:
		err = fmt.Errorf("%w: payment results are only accepted from the gateway", domain.ErrForbidden)
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownAction, cmd.Action())
	}
	return respond(c, managerPayment, cmd.Action(), response.OK(params), err)
}

// Callback handles POST /api/v1/payment/callback.
//
// @Summary      Payment gateway callback
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                   false  "Hex HMAC-SHA256 of the body, required when a callback secret is configured"
// @Param        body         body      command.PaymentCallback  true   "Trade result"
// @Success      200          {object}  response.Envelope
// @Failure      400          {object}  response.Envelope
// @Failure      401          {object}  response.Envelope
// @Failure      402          {object}  response.Envelope
// @Failure      404          {object}  response.Envelope
// @Router       /api/v1/payment/callback [post]
func (h *PaymentHandler) Callback(c echo.Context) error {
	var req command.PaymentCallback
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	err := h.service.HandleCallback(c.Request().Context(), req.Input())
	metrics.PaymentCallbacksTotal.WithLabelValues(callbackResult(err)).Inc()
	return respond(c, managerPayment, command.ActionPaymentCallback, response.Message("payment recorded"), err)
}

func callbackResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrPaymentFailed):
		return "failed"
	default:
		return "error"
	}
}
