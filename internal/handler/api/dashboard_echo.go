package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"StockDash/internal/domain/models"
	"StockDash/internal/usecase"
	xhttp "StockDash/pkg/http"
	xlogger "StockDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartRenderer draws chart input as an image.
type ChartRenderer interface {
	Render(w io.Writer, in models.ChartInput, width, height int) error
}

// SubmitLimiter throttles submits per session.
type SubmitLimiter interface {
	Allow(key string) bool
}

// DashboardEchoHandler exposes the dashboard sessions over HTTP.
type DashboardEchoHandler struct {
	logger      *xlogger.Logger
	sessions    *usecase.Registry
	renderer    ChartRenderer
	limiter     SubmitLimiter
	waitTimeout time.Duration
}

func NewDashboardEchoHandler(logger *xlogger.Logger, sessions *usecase.Registry, renderer ChartRenderer, limiter SubmitLimiter, waitTimeout time.Duration) *DashboardEchoHandler {
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Second
	}
	return &DashboardEchoHandler{
		logger:      logger.With("api"),
		sessions:    sessions,
		renderer:    renderer,
		limiter:     limiter,
		waitTimeout: waitTimeout,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.State)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/catalog", h.Catalog)
	g.POST("/:id/catalog/reload", h.ReloadCatalog)
	g.PUT("/:id/selection", h.Select)
	g.PUT("/:id/range", h.Range)
	g.POST("/:id/submit", h.Submit)
	g.GET("/:id/bundle", h.Bundle)
	g.GET("/:id/chart", h.Chart)
	g.GET("/:id/chart.png", h.ChartImage)
	g.GET("/:id/events", h.Events)
}

func (h *DashboardEchoHandler) Create(c echo.Context) error {
	sess := h.sessions.Create(c.Request().Context())
	return xhttp.CreatedResponse(c, sess.State())
}

func (h *DashboardEchoHandler) State(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sess.State())
}

func (h *DashboardEchoHandler) Delete(c echo.Context) error {
	if !h.sessions.Delete(c.Param("id")) {
		return xhttp.AppErrorResponse(c, toAppError(models.ErrSessionNotFound))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DashboardEchoHandler) Catalog(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.CatalogPageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, total := sess.Catalog().Page(req.Page, req.PageSize)
	return xhttp.PageResponse(c, rows, int64(total), req.Page, req.PageSize)
}

func (h *DashboardEchoHandler) ReloadCatalog(c echo.Context) error {
	st, err := h.sessions.Reload(c.Request().Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			h.logger.Error("catalog reload failed", xlogger.String("session", c.Param("id")), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_UPSTREAM", "", "catalog provider unavailable", http.StatusBadGateway).WithError(err))
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *DashboardEchoHandler) Select(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.SelectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, sess.Select(req.IDs))
}

func (h *DashboardEchoHandler) Range(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.RangeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	st := sess.State()
	if req.From != nil {
		st = sess.SetFrom(*req.From)
	}
	if req.To != nil {
		st = sess.SetTo(*req.To)
	}
	return xhttp.SuccessResponse(c, st)
}

// Submit starts a batch and answers 202 with the pending state. With
// ?wait=true it blocks until the batch settles and answers 200, falling
// back to 202 if the wait times out.
func (h *DashboardEchoHandler) Submit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if h.limiter != nil && !h.limiter.Allow(sess.ID()) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many submits, slow down"))
	}

	if _, err := sess.Submit(); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	wait, _ := strconv.ParseBool(c.QueryParam("wait"))
	if !wait {
		return xhttp.AcceptedResponse(c, sess.State())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.waitTimeout)
	defer cancel()
	if err := sess.Wait(ctx); err != nil {
		return xhttp.AcceptedResponse(c, sess.State())
	}
	return xhttp.SuccessResponse(c, sess.State())
}

func (h *DashboardEchoHandler) Bundle(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	b := sess.Bundle()
	if b == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no batch has settled yet"))
	}
	return xhttp.SuccessResponse(c, b)
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := sess.Chart(models.Metric(req.Metric))
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardEchoHandler) ChartImage(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.ChartImageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := sess.Chart(models.Metric(req.Metric))
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, out, req.Width, req.Height); err != nil {
		if !errors.Is(err, models.ErrNothingToRender) {
			h.logger.Error("chart render failed", xlogger.String("session", sess.ID()), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardEchoHandler) session(c echo.Context) (*usecase.Controller, error) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return nil, toAppError(err)
	}
	return sess, nil
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return xhttp.NotFoundError("session not found").WithError(err)
	case errors.Is(err, models.ErrValidation):
		return xhttp.ValidationFailedError(models.ErrValidation.Error())
	case errors.Is(err, models.ErrUnknownMetric):
		return xhttp.BadRequestError("unknown metric").WithError(err)
	case errors.Is(err, models.ErrNothingToRender):
		return xhttp.UnprocessableError("no series has data to draw").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
