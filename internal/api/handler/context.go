package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/api/command"
	"github.com/mashangjie/taskmarket/internal/api/metrics"
	"github.com/mashangjie/taskmarket/internal/api/middleware"
	"github.com/mashangjie/taskmarket/internal/api/response"
	"github.com/mashangjie/taskmarket/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// ctxCaller returns the caller identified by the Identity middleware.
// Anonymous callers are allowed here; services reject them where an identity
// is required.
func ctxCaller(c echo.Context) domain.Caller {
	return middleware.CallerFrom(c)
}

// decodeCommand reads the request body, decodes it with decode and validates
// the resulting command.
func decodeCommand[C command.Command](c echo.Context, manager string, decode func([]byte) (C, error)) (C, error) {
	var zero C

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return zero, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	cmd, err := decode(body)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues(manager, "invalid", resultLabel(err)).Inc()
		return zero, err
	}
	if err := c.Validate(cmd); err != nil {
		metrics.ActionsTotal.WithLabelValues(manager, cmd.Action(), "invalid_input").Inc()
		return zero, fmt.Errorf("%s: %w: %v", cmd.Action(), domain.ErrInvalidInput, err)
	}
	return cmd, nil
}

// respond records the action outcome and renders the success envelope. Errors
// are returned to the echo error handler.
func respond(c echo.Context, manager, action string, body response.Envelope, err error) error {
	metrics.ActionsTotal.WithLabelValues(manager, action, resultLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrOrderExists) && !errors.Is(err, domain.ErrReviewExists) {
			metrics.TransitionConflictsTotal.WithLabelValues(manager).Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, body)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrPaymentFailed):
		return "payment_failed"
	case errors.Is(err, domain.ErrUnknownAction):
		return "unknown_action"
	default:
		return "error"
	}
}
