package ui

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

// Row is one rendered list entry: display cells plus the selection flag.
type Row struct {
	Cells    []string
	Selected bool
}

// StudentRows projects students into directory rows. Pure function of the
// inputs; rendering the same collection twice yields identical rows.
func StudentRows(students []models.Student, selected int) []Row {
	rows := make([]Row, len(students))
	for i, s := range students {
		rows[i] = Row{
			Cells: []string{
				genderGlyph(s.Gender),
				s.Name,
				s.Course,
				orNA(s.StudentID),
				orNA(s.Session),
			},
			Selected: i == selected,
		}
	}
	return rows
}

// FeeRows projects fee records into ledger rows.
func FeeRows(fees []models.Fee, selected int) []Row {
	rows := make([]Row, len(fees))
	for i, f := range fees {
		rows[i] = Row{
			Cells: []string{
				orNA(f.StudentID),
				f.Name,
				f.Status,
				amountCell(f.Amount),
			},
			Selected: i == selected,
		}
	}
	return rows
}

func genderGlyph(gender string) string {
	switch gender {
	case models.GenderMale:
		return "♂"
	case models.GenderFemale:
		return "♀"
	default:
		return "⚲"
	}
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func amountCell(amount float64) string {
	if amount == 0 {
		return "-"
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// renderTable lays rows out in fixed-width columns. Styling is applied per
// row so a re-render fully replaces the previous output.
func renderTable(headers []string, widths []int, rows []Row) string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(formatCells(headers, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		line := formatCells(row.Cells, widths)
		if row.Selected {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := 10
		if i < len(widths) {
			w = widths[i]
		}
		parts[i] = padCell(cell, w)
	}
	return strings.Join(parts, "  ")
}

func padCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
