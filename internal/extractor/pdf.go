// Package extractor turns statement PDFs into plain text for the parsers.
// It is a collaborator of the parsing core: the core only ever sees the
// extracted text, never the PDF bytes.
package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrEncrypted reports an encrypted PDF that could not be opened with the
// supplied password (or no password was supplied). Callers are expected to
// obtain a password and retry.
var ErrEncrypted = errors.New("encrypted PDF: password required or incorrect")

// ExtractText reads a PDF file and returns the text content of each page.
// password may be empty for unprotected statements. If the structured PDF
// library fails, falls back to the external pdftotext command and then to
// OCR for image-only scans.
func ExtractText(filePath, password string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath, password)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}
	if errors.Is(libErr, ErrEncrypted) {
		return nil, libErr
	}

	// Library failed or returned garbage — try external pdftotext
	popplerPages, popplerErr := extractWithPdftotext(filePath, password)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	// Possibly a scan with no text layer — last resort is OCR
	ocrPages, ocrErr := ExtractTextOCR(filePath)
	if ocrErr == nil && isReadableText(ocrPages) {
		return ocrPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v; the file may be image-based or use font encodings that cannot be decoded", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from PDF")
}

// ExtractTextCombined reads a PDF and returns all text as one string with
// pages joined by blank lines, which is the form the parsers consume.
func ExtractTextCombined(filePath, password string) (string, error) {
	pages, err := ExtractText(filePath, password)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractWithLibrary uses the ledongthuc/pdf library. Encrypted files go
// through NewReaderEncrypted with the supplied password.
func extractWithLibrary(filePath, password string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// The password callback is consulted until it returns "": offer the
	// supplied password once, then give up.
	offered := false
	r, openErr := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		if offered || password == "" {
			return ""
		}
		offered = true
		return password
	})
	if openErr != nil {
		if openErr == pdf.ErrInvalidPassword {
			return nil, ErrEncrypted
		}
		return nil, openErr
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	// Row-based extraction preserves layout best
	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Coordinate-based row reconstruction from raw content
	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Whole-document plain text as last library method
	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

// extractByRow uses GetTextByRow, best for well-structured statements.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text pieces by Y coordinate to reconstruct rows,
// then sorts by X within each row.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top, so rows come out in descending Y
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					// Large gap — keep the column boundary visible
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByReaderPlainText is the whole-document extraction path.
func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to pdftotext (poppler-utils) as a fallback
// for files the Go library cannot handle.
func extractWithPdftotext(filePath, password string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	baseArgs := []string{"-layout"}
	if password != "" {
		baseArgs = append(baseArgs, "-upw", password)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", filePath).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, perr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); perr == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	// Extract each page separately to preserve page boundaries
	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		args := append(append([]string{}, baseArgs...), "-f", pageStr, "-l", pageStr, filePath, "-")
		out, err := exec.Command("pdftotext", args...).Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		args := append(append([]string{}, baseArgs...), filePath, "-")
		out, err := exec.Command("pdftotext", args...).Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %v", err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return []string{text}, nil
		}
		return nil, fmt.Errorf("pdftotext produced no output")
	}

	return pages, nil
}

// commonWords that appear in virtually all Romanian card statements. If the
// extracted text contains none of these, it's likely garbage.
var commonWords = []string{
	"extras", "cont", "banca", "card", "sold", "data", "tranzactie",
	"tranzactii", "suma", "ron", "comision", "rata", "plata", "debit",
	"credit", "pagina", "perioada", "comerciant", "titular",
}

// containsCommonWords checks whether the text holds at least one word that a
// statement would be expected to contain.
func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of readable characters to total characters.
// Romanian diacritics count as readable; a low ratio usually means
// identity-encoded font garbage.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"%&@#!?+=*\t", r) ||
				strings.ContainsRune("ăâîșțĂÂÎȘȚşţŞŢ", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText checks that pages contain enough text, that it's actually
// readable (not binary garbage), and that it contains recognizable words.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
