package render

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Page geometry in points. The layout is deliberately fixed so generated
// documents are visually stable across runs.
const (
	pageWidth  = 600.0
	pageHeight = 750.0

	leftMargin   = 50.0
	topMargin    = 50.0
	bottomMargin = 50.0

	// The first page carries the header block; its table header starts
	// below it. Continuation pages start the table header at the top
	// margin.
	headerTop         = 100.0
	headerBlockHeight = 220.0
	headerLineStep    = 20.0

	// Column x-offsets relative to the left margin.
	colDate   = 10.0
	colDesc   = 90.0
	colHours  = 260.0
	colRate   = 340.0
	colAmount = 420.0

	descWrapWidth = 160.0

	bodyFontSize   = 10.0
	headerFontSize = 12.0

	fontFamily = "Helvetica"
	dateFormat = "Jan 02, 2006"
)

// Row is one rendered invoice line. Rate is the effective hourly rate the
// amount was computed with.
type Row struct {
	Date        time.Time
	Description string
	Minutes     int
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Document holds everything the layout engine needs to produce an invoice
// PDF. Rendering is a pure function of this value.
type Document struct {
	InvoiceNumber string
	CustomerName  string
	PaymentTerms  string
	ProjectName   string
	IssuedAt      time.Time
	Issuer        []string
	Rows          []Row
	Total         decimal.Decimal
}

// Render produces the invoice document bytes.
func Render(doc Document) ([]byte, error) {
	pdf, err := renderDocument(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDocument(doc Document) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)

	e := &engine{pdf: pdf, fm: pdfMetrics{pdf: pdf}}
	e.startFirstPage(doc)

	for _, row := range sortedRows(doc.Rows) {
		pdf.SetFont(fontFamily, "", bodyFontSize)
		lines := Wrap(row.Description, descWrapWidth, bodyFontSize, e.fm)
		e.ensureSpace(rowHeight(len(lines)))
		e.drawRow(row, lines)
	}
	e.drawTotal(doc.Total)

	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}

// sortedRows returns the rows in ascending date order without mutating the
// caller's slice.
func sortedRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func rowHeight(lineCount int) float64 {
	return float64(lineCount)*bodyFontSize + bodyFontSize
}

// pdfMetrics measures text with the document's embedded font.
type pdfMetrics struct {
	pdf *gofpdf.Fpdf
}

func (m pdfMetrics) TextWidth(text string, size float64) float64 {
	m.pdf.SetFontSize(size)
	return m.pdf.GetStringWidth(text)
}

// engine tracks the vertical cursor while pages are filled top-down.
type engine struct {
	pdf *gofpdf.Fpdf
	fm  FontMetrics
	y   float64
}

func (e *engine) startFirstPage(doc Document) {
	e.pdf.AddPage()
	e.pdf.SetTextColor(0, 0, 0)

	y := headerTop
	e.pdf.SetFont(fontFamily, "", headerFontSize)
	for _, line := range doc.Issuer {
		if line == "" {
			continue
		}
		e.text(0, y, line)
		y += headerLineStep
	}

	e.pdf.SetFont(fontFamily, "B", headerFontSize)
	e.text(0, y, fmt.Sprintf("Invoice No. %s", doc.InvoiceNumber))
	y += headerLineStep

	e.pdf.SetFont(fontFamily, "", headerFontSize)
	e.text(0, y, fmt.Sprintf("Bill To: %s", doc.CustomerName))
	y += headerLineStep
	e.text(0, y, fmt.Sprintf("Date: %s", doc.IssuedAt.Format(dateFormat)))
	y += headerLineStep
	e.text(0, y, fmt.Sprintf("Project: %s", doc.ProjectName))
	y += headerLineStep
	if doc.PaymentTerms != "" {
		e.text(0, y, fmt.Sprintf("Payment Terms: %s", doc.PaymentTerms))
	}

	e.y = headerTop + headerBlockHeight
	e.drawTableHeader()
}

func (e *engine) newPage() {
	e.pdf.AddPage()
	e.y = topMargin
	e.drawTableHeader()
}

func (e *engine) drawTableHeader() {
	e.pdf.SetFont(fontFamily, "B", headerFontSize)
	e.text(colDate, e.y, "Date")
	e.text(colDesc, e.y, "Description")
	e.text(colHours, e.y, "Hours")
	e.text(colRate, e.y, "Rate")
	e.text(colAmount, e.y, "Amount")
	e.y += 2 * bodyFontSize
}

func (e *engine) ensureSpace(height float64) {
	if e.y+height > pageHeight-bottomMargin {
		e.newPage()
	}
}

// drawRow draws one entry. The hours, rate and amount columns share the
// description's first line; multi-line descriptions consume the extra
// vertical space before the next row starts.
func (e *engine) drawRow(row Row, lines []string) {
	e.pdf.SetFont(fontFamily, "", bodyFontSize)
	top := e.y

	e.text(colDate, top, row.Date.Format(dateFormat))
	for i, line := range lines {
		e.text(colDesc, top+float64(i)*bodyFontSize, line)
	}
	e.text(colHours, top, fmt.Sprintf("%.2f", float64(row.Minutes)/60))
	e.text(colRate, top, "$"+row.Rate.StringFixed(2))
	e.text(colAmount, top, "$"+row.Amount.StringFixed(2))

	e.y = top + rowHeight(len(lines))
}

func (e *engine) drawTotal(total decimal.Decimal) {
	height := 2 * headerFontSize
	if e.y+height > pageHeight-bottomMargin {
		e.newPage()
	}
	e.y += bodyFontSize
	e.pdf.SetFont(fontFamily, "B", headerFontSize)
	e.text(colRate, e.y, "Total:")
	e.text(colAmount, e.y, "$"+total.StringFixed(2))
}

func (e *engine) text(offset, y float64, s string) {
	e.pdf.Text(leftMargin+offset, y, s)
}
