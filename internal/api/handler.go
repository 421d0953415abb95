// Package api exposes the statement engine over HTTP.
package api

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/extractor"
	"github.com/crednx/statement-engine/internal/models"
	"github.com/crednx/statement-engine/internal/parser"
	"github.com/crednx/statement-engine/internal/session"
	"github.com/crednx/statement-engine/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ConvertResponse is the JSON body returned by POST /api/convert.
type ConvertResponse struct {
	Success          bool                       `json:"success"`
	Error            string                     `json:"error,omitempty"`
	SessionID        string                     `json:"sessionId,omitempty"`
	Dialect          string                     `json:"dialect,omitempty"`
	Bank             string                     `json:"bank,omitempty"`
	Transactions     []models.TransactionRecord `json:"transactions"`
	Mismatches       []models.MismatchRecord    `json:"mismatches,omitempty"`
	CSV              string                     `json:"csv,omitempty"`
	TotalDeposits    float64                    `json:"totalDeposits"`
	TotalWithdrawals float64                    `json:"totalWithdrawals"`
	Count            int                        `json:"count"`
}

// Handler wires the engine, dialect registry and session store into
// fiber routes.
type Handler struct {
	registry *dialect.Registry
	engine   *parser.Engine
	sessions *session.Store
	log      zerolog.Logger
}

// NewHandler builds a handler around the given collaborators.
func NewHandler(registry *dialect.Registry, sessions *session.Store, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		engine:   parser.NewEngine(log),
		sessions: sessions,
		log:      log,
	}
}

// RegisterRoutes mounts the API endpoints on app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/dialects", h.HandleDialects)
	app.Post("/api/convert", h.HandleConvert)
	app.Get("/api/sessions/:id", h.HandleSession)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleDialects lists the registered dialect keys.
func (h *Handler) HandleDialects(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"dialects": h.registry.Keys()})
}

// HandleSession returns the stored parse result for a session.
func (h *Handler) HandleSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Open(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, err.Error())
	}
	result, err := sess.LoadResult()
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(result)
}

// HandleConvert accepts a statement PDF (form field "file") or
// pre-extracted text (form field "extractedText"), parses it, persists
// the result into a session, and returns transactions plus CSV.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	sess, err := h.sessions.New()
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	text, aerr := h.statementText(c, sess)
	if aerr != nil {
		return errorResponse(c, aerr.status, aerr.msg)
	}

	d, err := h.selectDialect(c.FormValue("bank"), text)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	result, parseErr := h.engine.Parse(text, d)
	if parseErr != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ConvertResponse{
			Success:      false,
			Error:        result.Error,
			Dialect:      result.Dialect,
			Bank:         result.BankName,
			Transactions: []models.TransactionRecord{},
		})
	}

	if err := sess.SaveResult(result); err != nil {
		h.log.Warn().Err(err).Str("session", sess.ID).Msg("could not persist result")
	}

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{IncludeMetadata: c.FormValue("metadata") == "true"}
	if err := cw.Write(&csvBuf, result); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	txns := result.Transactions
	if txns == nil {
		// nil marshals to JSON null, not [].
		txns = []models.TransactionRecord{}
	}

	return c.JSON(ConvertResponse{
		Success:          result.Success,
		Error:            result.Error,
		SessionID:        sess.ID,
		Dialect:          result.Dialect,
		Bank:             result.BankName,
		Transactions:     txns,
		Mismatches:       result.Mismatches,
		CSV:              csvBuf.String(),
		TotalDeposits:    result.TotalDeposits(),
		TotalWithdrawals: result.TotalWithdrawals(),
		Count:            len(txns),
	})
}

// apiError carries an HTTP status alongside the message shown to the
// client.
type apiError struct {
	status int
	msg    string
}

// statementText resolves the raw text for a convert request: client-side
// extracted text wins, otherwise the uploaded PDF is extracted here.
func (h *Handler) statementText(c *fiber.Ctx, sess *session.Session) (string, *apiError) {
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		return text, nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", &apiError{fiber.StatusBadRequest, "no statement provided; upload form field 'file' or 'extractedText'"}
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return "", &apiError{fiber.StatusBadRequest, "only PDF files are supported"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", &apiError{fiber.StatusInternalServerError, "failed to read upload"}
	}
	defer file.Close()

	path, err := sess.SaveUpload(fileHeader.Filename, file)
	if err != nil {
		return "", &apiError{fiber.StatusInternalServerError, err.Error()}
	}

	text, err := extractor.ExtractStatementText(path)
	if err != nil {
		return "", &apiError{fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err)}
	}
	return text, nil
}

// selectDialect honors an explicit bank key and falls back to indicator
// detection.
func (h *Handler) selectDialect(bank, text string) (*dialect.Dialect, error) {
	if bank != "" {
		return h.registry.Get(strings.ToLower(bank))
	}
	return h.registry.Detect(text)
}

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.TransactionRecord{},
	})
}
