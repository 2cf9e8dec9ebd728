// Package report renders progress reports as PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/upscprep/prepdesk/internal/domain"
)

// WriteProgress renders a one-page progress report for who to w.
// cmp may be nil or not comparable, in which case the comparison block is skipped.
func WriteProgress(w io.Writer, who domain.Identity, p *domain.Progress, cmp *domain.Comparison, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Progress report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Progress report: "+who.FullName))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s  |  generated %s", who.Email, now.Format("2 Jan 2006 15:04"))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Overview")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	overview := [][2]string{
		{"Current score", fmt.Sprintf("%.1f%%", p.CurrentScore)},
		{"Previous score", fmt.Sprintf("%.1f%%", p.PreviousScore)},
		{"Improvement", fmt.Sprintf("%+.1f", p.Improvement)},
		{"Assessments completed", fmt.Sprintf("%d", p.TotalAssessments)},
		{"Study streak", fmt.Sprintf("%d days", p.StudyStreak)},
	}
	for _, row := range overview {
		pdf.CellFormat(60, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if len(p.SubjectProgress) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "By subject")
		pdf.Ln(8)

		widths := []float64{60, 30, 30, 25, 30}
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 236, 245)
		for i, h := range []string{"Subject", "Current", "Previous", "Tests", "Change"} {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, s := range p.SubjectProgress {
			pdf.CellFormat(widths[0], 7, tr(s.Subject), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.1f", s.Current), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.1f", s.Previous), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", s.Tests), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 7, fmt.Sprintf("%+.1f", s.Improvement), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if cmp != nil && cmp.Comparable() {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(fmt.Sprintf("Comparison: %s / %s", cmp.Subject, cmp.Topic)))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf(
			"First attempt on %s scored %.1f. Latest attempt on %s scored %.1f. Change %+.1f over %d attempts.",
			cmp.FirstAttempt.Date.Format("2 Jan 2006"), cmp.FirstAttempt.Score,
			cmp.LatestAttempt.Date.Format("2 Jan 2006"), cmp.LatestAttempt.Score,
			cmp.Improvement, cmp.TotalAttempts,
		), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render progress report: %w", err)
	}
	return nil
}
