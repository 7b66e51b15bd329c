// Package export renders itineraries as downloadable documents: paginated
// PDF tables and iCalendar files. Rendering is a pure function of the input.
package export

import (
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const (
	fontFamily    = "Helvetica"
	titleSize     = 16
	headSize      = 10
	bodySize      = 9
	lineHeight    = 4.5
	cellPadding   = 1.5
	footerSpace   = 15
	maxColumnChar = 40
)

// Filename returns the download name for t, always ending in ".pdf". Any
// directory part of t.Filename is dropped.
func Filename(t domain.Table) string {
	name := strings.TrimSpace(t.Filename)
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		name = domain.DefaultExportFilename
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// WritePDF renders t as an A4 portrait table. The title heads the first
// page and column headings head every page. Cell text wraps within its
// column; a row that fits on one page is never split, a taller one
// continues on the next page. Columns keep the order of t.Columns; a row
// missing a column gets an empty cell and keys not named in t.Columns are
// ignored. Characters outside the Windows-1252 set render as ".".
func WritePDF(w io.Writer, t domain.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("export.WritePDF: %w: table has no columns", domain.ErrValidation)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator("trip-planner", true)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(false, footerSpace)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerSpace + 5)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageW, pageH := pdf.GetPageSize()
	left, top, right, _ := pdf.GetMargins()
	tw := &tableWriter{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		columns: t.Columns,
		widths:  columnWidths(t, pageW-left-right),
		left:    left,
		top:     top,
		bottom:  pageH - footerSpace,
	}

	pdf.AddPage()
	if t.Title != "" {
		pdf.SetFont(fontFamily, "B", titleSize)
		pdf.CellFormat(0, 10, tw.tr(t.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	tw.row(t.Columns, true)
	for _, r := range t.Rows {
		tw.row(t.Cells(r), false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export.WritePDF: %w", err)
	}
	return nil
}

type tableWriter struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	columns []string
	widths  []float64
	left    float64
	top     float64
	bottom  float64
	// headH is the height of the heading row, known once it is drawn.
	headH float64
}

// row draws one table row. A body row that does not fit in the space left
// moves to a new page; if it would not fit on a whole page either, it is
// drawn in slices, each page repeating the headings.
func (tw *tableWriter) row(cells []string, heading bool) {
	tw.setFont(heading)
	lines := make([][]string, len(cells))
	total := 1
	for i, c := range cells {
		lines[i] = tw.wrap(tw.tr(c), tw.widths[i]-2*cellPadding)
		total = max(total, len(lines[i]))
	}

	if heading {
		tw.headH = rowHeight(total)
		tw.draw(lines, 0, total, true)
		return
	}

	start, fresh := 0, false
	for {
		left, avail := total-start, tw.linesLeft()
		if left <= avail {
			tw.draw(lines, start, total, false)
			return
		}
		if !fresh && (avail < 1 || (start == 0 && left <= tw.linesPerPage())) {
			tw.newPage()
			fresh = true
			continue
		}
		n := max(avail, 1)
		tw.draw(lines, start, start+n, false)
		start += n
		tw.newPage()
		fresh = true
	}
}

// draw renders lines [from, to) of every cell as one row box.
func (tw *tableWriter) draw(lines [][]string, from, to int, heading bool) {
	pdf := tw.pdf
	h := rowHeight(to - from)
	x, y := tw.left, pdf.GetY()
	for i, cell := range lines {
		style := "D"
		if heading {
			pdf.SetFillColor(230, 236, 245)
			style = "FD"
		}
		pdf.Rect(x, y, tw.widths[i], h, style)
		for j := from; j < to && j < len(cell); j++ {
			pdf.SetXY(x+cellPadding, y+cellPadding/2+float64(j-from)*lineHeight)
			pdf.CellFormat(tw.widths[i]-2*cellPadding, lineHeight, cell[j], "", 0, "L", false, 0, "")
		}
		x += tw.widths[i]
	}
	pdf.SetXY(tw.left, y+h)
}

func (tw *tableWriter) newPage() {
	tw.pdf.AddPage()
	tw.pdf.SetY(tw.top)
	tw.row(tw.columns, true)
	tw.setFont(false)
}

// linesLeft is how many body lines fit between the cursor and the footer.
func (tw *tableWriter) linesLeft() int {
	return int((tw.bottom - tw.pdf.GetY() - cellPadding) / lineHeight)
}

// linesPerPage is how many body lines fit under the headings of a new page.
func (tw *tableWriter) linesPerPage() int {
	return int((tw.bottom - tw.top - tw.headH - cellPadding) / lineHeight)
}

func rowHeight(lines int) float64 {
	return float64(lines)*lineHeight + cellPadding
}

// wrap breaks s into lines that fit width w at the current font. s must
// already be in the font's single-byte encoding, so byte offsets are
// character offsets. Words wider than a line are broken between letters.
func (tw *tableWriter) wrap(s string, w float64) []string {
	w -= 2 * tw.pdf.GetCellMargin()
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.FieldsFunc(para, isBlank) {
			next := word
			if line != "" {
				next = line + " " + word
			}
			if tw.pdf.GetStringWidth(next) <= w {
				line = next
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for len(word) > 1 && tw.pdf.GetStringWidth(word) > w {
				n := tw.fit(word, w)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// isBlank matches ASCII blanks only; other bytes are single-byte encoded
// letters, not UTF-8.
func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// fit returns the longest prefix length of word narrower than w, at least 1.
func (tw *tableWriter) fit(word string, w float64) int {
	n := 1
	for n < len(word) && tw.pdf.GetStringWidth(word[:n+1]) <= w {
		n++
	}
	return n
}

func (tw *tableWriter) setFont(heading bool) {
	if heading {
		tw.pdf.SetFont(fontFamily, "B", headSize)
		return
	}
	tw.pdf.SetFont(fontFamily, "", bodySize)
}

// columnWidths shares total across the columns in proportion to the longest
// text each holds, clamped so that no column starves or dominates.
func columnWidths(t domain.Table, total float64) []float64 {
	weights := make([]float64, len(t.Columns))
	var sum float64
	for i, col := range t.Columns {
		longest := utf8.RuneCountInString(col)
		for _, r := range t.Rows {
			longest = max(longest, utf8.RuneCountInString(r[col]))
		}
		weights[i] = float64(min(max(longest, 4), maxColumnChar))
		sum += weights[i]
	}

	out := make([]float64, len(weights))
	for i, wgt := range weights {
		out[i] = total * wgt / sum
	}
	return out
}
