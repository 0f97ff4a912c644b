package todo

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"

	"github.com/gk022135/todo-backend/internal/domain"
)

// Report caps: everything past maxReportRows is summarized as a
// truncation marker rather than ballooning the document.
const (
	reportFetchLimit = 1000
	maxReportRows    = 200
)

// Report renders the caller's todo list as a downloadable PDF.
func (h *Handler) Report(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	todos, total, err := h.Store.ListByOwner(userContext(c), ownerID, 1, reportFetchLimit)
	if err != nil {
		return err
	}

	buf, err := renderReportPDF(ownerID, todos, total)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed: "+err.Error())
	}

	filename := "todos-" + time.Now().Format("2006-01-02") + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf)
}

func renderReportPDF(ownerID string, todos []domain.Todo, total int64) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Todo List")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Owner: "+maskID(ownerID))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated: "+time.Now().Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)

	colW := []float64{22, 70, 70, 20}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(colW[0], 8, "STATUS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "TITLE", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "ID", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	pdf.SetTextColor(30, 30, 30)
	for i, t := range todos {
		if i >= maxReportRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "…truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		status := "OPEN"
		if t.Completed {
			status = "DONE"
		}

		pdf.CellFormat(colW[0], 8, status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, trimTo(t.Title, 42), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(t.Description, 42), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, shortID(t.ID), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Total items: "+intToStr(total)+" • "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}

// trimTo truncates on rune boundaries; cutting on a byte index could
// split a multi-byte character and emit garbage into the PDF cell.
func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func intToStr(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [32]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
