// Package api exposes the converter over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ratetrack/ratetrack/internal/buildinfo"
	"github.com/ratetrack/ratetrack/internal/extractor"
	"github.com/ratetrack/ratetrack/internal/models"
	"github.com/ratetrack/ratetrack/internal/parser"
	"github.com/ratetrack/ratetrack/internal/rules"
	"github.com/ratetrack/ratetrack/internal/summary"
	"github.com/ratetrack/ratetrack/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success             bool                 `json:"success"`
	Error               string               `json:"error,omitempty"`
	Parser              string               `json:"parser,omitempty"`
	Transactions        []models.Transaction `json:"transactions"`
	Count               int                  `json:"count"`
	Buckets             []summary.Bucket     `json:"buckets"`
	NonInstallmentTotal float64              `json:"nonInstallmentTotal"`
	NewlyOpenedTotal    float64              `json:"newlyOpenedTotal"`
	CSV                 string               `json:"csv,omitempty"`
	Version             string               `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Registry *parser.Registry
	Rules    []rules.Rule
	Lang     string
	Logger   *slog.Logger
}

// Register sets up the HTTP routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/parsers", h.HandleParsers)
	app.Post("/api/convert", h.HandleConvert)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": buildinfo.Version,
	})
}

// HandleParsers lists the registered grammar variants, for manual selection
// when auto-detection fails.
func (h *Handler) HandleParsers(c *fiber.Ctx) error {
	var names []string
	for _, e := range h.Registry.Extractors() {
		names = append(names, e.Name())
	}
	return c.JSON(fiber.Map{"parsers": names})
}

// HandleConvert accepts a multipart statement upload and returns the parsed
// transactions plus the payoff summary. Form fields: file (required, PDF),
// parser (optional variant name), password (optional, for encrypted files),
// lang (optional header language), extractedText (optional client-side
// extracted text, skips server-side PDF decoding).
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	lang := c.FormValue("lang")
	if lang == "" {
		lang = h.Lang
	}

	text := strings.TrimSpace(c.FormValue("extractedText"))
	if text == "" {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "only PDF files are supported")
		}

		tmp, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
		}
		tmpName := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpName)

		if err := c.SaveFile(fh, tmpName); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
		}

		text, err = extractor.ExtractTextCombined(tmpName, c.FormValue("password"))
		if err != nil {
			if errors.Is(err, extractor.ErrEncrypted) {
				return writeError(c, fiber.StatusUnauthorized,
					"the PDF is password protected; resubmit with the password form field")
			}
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}

		if h.Logger != nil {
			h.Logger.Debug("extracted statement text", "file", fh.Filename, "chars", len(text))
		}
	}

	selected, txns, err := h.Registry.Parse(text, c.FormValue("parser"))
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrUnrecognizedDocument):
			return writeError(c, fiber.StatusUnprocessableEntity,
				"could not auto-detect the statement format; pass the parser form field (see /api/parsers)")
		case errors.Is(err, parser.ErrNoTransactions):
			return writeError(c, fiber.StatusUnprocessableEntity,
				"no transactions found in the document")
		default:
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("parsing failed: %v", err))
		}
	}

	// Categorization happens on the response copies; parsed records stay
	// untouched.
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	for i := range out {
		out[i].Category = rules.Categorize(out[i].Store, h.Rules)
	}

	sum := summary.Aggregate(txns)

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{Lang: lang}
	if err := cw.Write(&csvBuf, selected.Columns(), out); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	return c.JSON(ConvertResponse{
		Success:             true,
		Parser:              selected.Name(),
		Transactions:        out,
		Count:               len(out),
		Buckets:             sum.SortedBuckets(),
		NonInstallmentTotal: sum.NonInstallmentTotal,
		NewlyOpenedTotal:    sum.NewlyOpenedTotal,
		CSV:                 csvBuf.String(),
		Version:             buildinfo.Version,
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}
