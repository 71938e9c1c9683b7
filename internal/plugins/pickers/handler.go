package pickers

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/datepicker/internal/apperror"
	"github.com/keyxmakerx/datepicker/internal/middleware"
	"github.com/keyxmakerx/datepicker/internal/templates/layouts"
)

// maxICSUpload caps the size of an uploaded iCalendar feed.
const maxICSUpload = 2 * 1024 * 1024

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// decodeValues decodes query or form values into dst.
func decodeValues(dst any, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		return apperror.NewBadRequest("invalid parameters")
	}
	return nil
}

// Handler processes HTTP requests for widgets and picker sessions.
type Handler struct {
	svc PickerService
}

// NewHandler creates a new pickers Handler.
func NewHandler(svc PickerService) *Handler {
	return &Handler{svc: svc}
}

// --- Widget API ---

// ListWidgetsAPI returns a page of widgets.
// GET /api/v1/widgets?page=&per_page=
func (h *Handler) ListWidgetsAPI(c echo.Context) error {
	var opts ListOptions
	if err := decodeValues(&opts, c.QueryParams()); err != nil {
		return err
	}
	opts = opts.normalize()

	widgets, total, err := h.svc.ListWidgets(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	if widgets == nil {
		widgets = []Widget{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":     widgets,
		"total":    total,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	})
}

// CreateWidgetAPI creates a widget.
// POST /api/v1/widgets
func (h *Handler) CreateWidgetAPI(c echo.Context) error {
	var input WidgetInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	w, err := h.svc.CreateWidget(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, w)
}

// GetWidgetAPI returns one widget with its date lists.
// GET /api/v1/widgets/:wid
func (h *Handler) GetWidgetAPI(c echo.Context) error {
	w, err := h.svc.GetWidget(c.Request().Context(), c.Param("wid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// UpdateWidgetAPI replaces a widget's settings.
// PUT /api/v1/widgets/:wid
func (h *Handler) UpdateWidgetAPI(c echo.Context) error {
	var input WidgetInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	w, err := h.svc.UpdateWidget(c.Request().Context(), c.Param("wid"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// DeleteWidgetAPI deletes a widget.
// DELETE /api/v1/widgets/:wid
func (h *Handler) DeleteWidgetAPI(c echo.Context) error {
	if err := h.svc.DeleteWidget(c.Request().Context(), c.Param("wid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportHighlightsAPI adds the days of an uploaded iCalendar feed to a
// widget's highlights. Accepts a multipart "file" field or a raw body.
// POST /api/v1/widgets/:wid/highlights/ics
func (h *Handler) ImportHighlightsAPI(c echo.Context) error {
	var src io.Reader
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return apperror.NewBadRequest("could not read uploaded file")
		}
		defer f.Close()
		src = f
	} else {
		src = c.Request().Body
	}

	n, err := h.svc.ImportHighlights(c.Request().Context(), c.Param("wid"), io.LimitReader(src, maxICSUpload))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"imported": n,
	})
}

// --- Session API ---

// OpenSessionAPI opens a picker session from a widget.
// POST /api/v1/widgets/:wid/sessions
func (h *Handler) OpenSessionAPI(c echo.Context) error {
	var input SessionInput
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&input); err != nil {
			return apperror.NewBadRequest("invalid request")
		}
	}

	v, err := h.svc.OpenSession(c.Request().Context(), c.Param("wid"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// GetSessionAPI returns the current state of a session.
// GET /api/v1/sessions/:token
func (h *Handler) GetSessionAPI(c echo.Context) error {
	v, err := h.svc.GetSession(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// CloseSessionAPI discards a session.
// DELETE /api/v1/sessions/:token
func (h *Handler) CloseSessionAPI(c echo.Context) error {
	if err := h.svc.CloseSession(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// NavigateAPI moves a session's view.
// POST /api/v1/sessions/:token/navigate
func (h *Handler) NavigateAPI(c echo.Context) error {
	var input NavInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	v, err := h.svc.Navigate(c.Request().Context(), c.Param("token"), input.Action, input.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// ClickAPI clicks a day.
// POST /api/v1/sessions/:token/click
func (h *Handler) ClickAPI(c echo.Context) error {
	var input DateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	v, err := h.svc.Click(c.Request().Context(), c.Param("token"), input.Date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// HoverAPI moves the preview end of an armed range.
// POST /api/v1/sessions/:token/hover
func (h *Handler) HoverAPI(c echo.Context) error {
	var input DateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	v, err := h.svc.Hover(c.Request().Context(), c.Param("token"), input.Date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// --- HTML ---

// Embed opens a new session and renders it as a page for an iframe. The
// session remembers that it is embedded and its theme, so pages served
// without HTMX keep the embed look.
// GET /embed/:wid?date=&dates=&range_start=&range_end=&initial_view=&theme=
func (h *Handler) Embed(c echo.Context) error {
	var input SessionInput
	if err := decodeValues(&input, c.QueryParams()); err != nil {
		return err
	}
	input.Embedded = true

	v, err := h.svc.OpenSession(c.Request().Context(), c.Param("wid"), input)
	if err != nil {
		return err
	}
	setLayout(c, v)
	return middleware.Render(c, http.StatusOK, PickerPage(v))
}

// Show renders a session as a page, or as a fragment for HTMX requests.
// GET /pickers/:token
func (h *Handler) Show(c echo.Context) error {
	v, err := h.svc.GetSession(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return h.render(c, v)
}

// Navigate handles header and grid navigation buttons.
// POST /pickers/:token/navigate
func (h *Handler) Navigate(c echo.Context) error {
	var input NavInput
	if err := h.decodeForm(c, &input); err != nil {
		return err
	}

	v, err := h.svc.Navigate(c.Request().Context(), c.Param("token"), input.Action, input.Value)
	if err != nil {
		return err
	}
	return h.render(c, v)
}

// Click handles a day button.
// POST /pickers/:token/click
func (h *Handler) Click(c echo.Context) error {
	var input DateInput
	if err := h.decodeForm(c, &input); err != nil {
		return err
	}

	v, err := h.svc.Click(c.Request().Context(), c.Param("token"), input.Date)
	if err != nil {
		return err
	}
	if v.Change != nil {
		// Lets host pages listen for committed values.
		c.Response().Header().Set("HX-Trigger", "picker:change")
	}
	return h.render(c, v)
}

// Hover handles the preview of an armed range.
// POST /pickers/:token/hover
func (h *Handler) Hover(c echo.Context) error {
	var input DateInput
	if err := h.decodeForm(c, &input); err != nil {
		return err
	}

	v, err := h.svc.Hover(c.Request().Context(), c.Param("token"), input.Date)
	if err != nil {
		return err
	}
	return h.render(c, v)
}

func (h *Handler) decodeForm(c echo.Context, dst any) error {
	form, err := c.FormParams()
	if err != nil {
		return apperror.NewBadRequest("invalid form")
	}
	return decodeValues(dst, form)
}

// render returns the fragment for HTMX requests and the full page otherwise.
func (h *Handler) render(c echo.Context, v *SessionView) error {
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, PickerFragment(v))
	}
	setLayout(c, v)
	return middleware.Render(c, http.StatusOK, PickerPage(v))
}

// setLayout carries the session's embed flag and theme to the page shell.
func setLayout(c echo.Context, v *SessionView) {
	ctx := layouts.WithEmbedded(c.Request().Context(), v.Embedded)
	ctx = layouts.WithTheme(ctx, v.Theme)
	c.SetRequest(c.Request().WithContext(ctx))
}
