package api

import (
	"errors"
	"strconv"

	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/customization"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Catalog & Quote Handlers
// ============================================================

// Catalog lists every category, its variants and the baseline selection.
func (s *Server) Catalog(c fiber.Ctx) error {
	return c.JSON(describeCatalog(s.sessions.Catalog()))
}

// QuoteSelection prices a selection without creating a session. Fields are applied on
// top of the baseline.
func (s *Server) QuoteSelection(c fiber.Ctx) error {
	in, err := parseSelection(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	cat := s.sessions.Catalog()
	st := customization.NewStore(cat, s.log)
	rejected := st.Update(in.Update)
	return c.JSON(fiber.Map{
		"selection":        st.Selection(),
		"lines":            st.Breakdown(),
		"totalPrice":       st.TotalPrice(),
		"hasModifications": st.HasModifications(),
		"rejected":         rejected,
	})
}

// ============================================================
// Session Handlers
// ============================================================

// CreateSession starts a session, optionally applying an initial selection.
func (s *Server) CreateSession(c fiber.Ctx) error {
	in, err := parseSelection(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	sess := s.sessions.Create()
	rejected := sess.Apply(in)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse{ID: sess.ID, Quote: sess.Quote(), Rejected: rejected})
}

// GetSession returns the session's current quote.
func (s *Server) GetSession(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(sessionResponse{ID: sess.ID, Quote: sess.Quote()})
}

// UpdateSession merges a partial selection. Unknown variant ids are ignored, not errors.
func (s *Server) UpdateSession(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	in, err := parseSelection(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	rejected := sess.Apply(in)
	return c.JSON(sessionResponse{ID: sess.ID, Quote: sess.Quote(), Rejected: rejected})
}

// ResetSession restores the baseline selection.
func (s *Server) ResetSession(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	sess.Reset()
	return c.JSON(sessionResponse{ID: sess.ID, Quote: sess.Quote()})
}

// CaptureSession renders the current selection and returns it as PNG. kind selects frame,
// thumbnail (bounded by width) or quote; render=false reads the last frame without
// drawing a new one. It answers 503 when there is none yet and 409 when the selection
// changed after that frame was drawn.
func (s *Server) CaptureSession(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if c.Query("render") != "false" {
		sess.Render()
	} else if sess.Stale() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "frame predates the current selection, capture with render=true"})
	}

	ctx := c.Context()
	var data []byte
	switch kind := c.Query("kind", "frame"); kind {
	case "frame":
		data = sess.CaptureFrame(ctx)
	case "thumbnail":
		width, _ := strconv.Atoi(c.Query("width"))
		data = sess.Thumbnail(ctx, width)
	case "quote":
		data = sess.QuoteImage(ctx)
	default:
		return badRequest(c, errors.New("kind must be frame, thumbnail or quote"))
	}
	if data == nil {
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "frame not ready"})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// DeleteSession ends a session.
func (s *Server) DeleteSession(c fiber.Ctx) error {
	if err := s.sessions.Delete(c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) fail(c fiber.Ctx, err error) error {
	if errors.Is(err, configurator.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
