package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
)

// fail logs err under event and converts it into the HTTP error returned to
// the client. Only domain messages are echoed back.
func fail(l *slog.Logger, event string, err error) error {
	var de *service.Error
	msg := ""
	if errors.As(err, &de) {
		msg = de.Msg
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", http.StatusConflict, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusConflict, msg)
	case errors.Is(err, service.ErrTransient):
		l.Error(event, "status", http.StatusServiceUnavailable, "reason", "transaction failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "reason", "unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("id is not a positive integer")
	}
	return uint(id), nil
}

// notFoundID answers malformed ids the same way as unknown ones.
func notFoundID(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusNotFound, "reason", "invalid id", "error", err)
	return echo.NewHTTPError(http.StatusNotFound, "Not found.")
}

func optionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
