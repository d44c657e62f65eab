package httpserve

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bnema/mcp-docker/pkg/bytesize"
	"github.com/bnema/mcp-docker/pkg/logger"
)

const healthTimeout = 5 * time.Second

// handleMCP answers one JSON-RPC message. Notifications get 202 with no body.
func (s *Server) handleMCP(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, s.opts.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Request body too large", "limit", bytesize.Format(tooLarge.Limit), "ip", c.RealIP())
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body exceeds "+bytesize.Format(tooLarge.Limit))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	resp := s.mcp.HandleMessage(c.Request().Context(), body)
	if resp == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSONBlob(http.StatusOK, resp)
}

type health struct {
	Status     string `json:"status"`
	APIVersion string `json:"apiVersion,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	version, err := s.pinger.Ping(ctx)
	if err != nil {
		logger.Warn("Health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, health{Status: "unavailable", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, health{Status: "ok", APIVersion: version})
}
