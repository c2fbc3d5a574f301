package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/utils"
)

// Report formats accepted by the daily report.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
)

// ReportService renders close summaries for printing and sharing.
type ReportService struct {
	DB *sql.DB
}

func (s ReportService) closing() ClosingService { return ClosingService{DB: s.DB} }

// Daily returns the record used by the daily report: the stored close when
// the day is closed, a live preview otherwise.
func (s ReportService) Daily(ctx context.Context, date string) (models.DailyClose, error) {
	return s.closing().Day(ctx, date)
}

func (s ReportService) Period(ctx context.Context, rng domain.DateRange) (models.PeriodReport, error) {
	return s.closing().Period(ctx, rng)
}

// Render produces the daily report in format and returns the body, content
// type and a download file name.
func (s ReportService) Render(rec models.DailyClose, format string) ([]byte, string, string, error) {
	base := "daily-" + rec.Date
	switch format {
	case FormatMarkdown:
		return []byte(DailyMarkdown(rec)), "text/markdown; charset=utf-8", base + ".md", nil
	case FormatHTML:
		html, err := DailyHTML(rec)
		return html, "text/html; charset=utf-8", base + ".html", err
	case FormatPDF:
		pdf, err := DailyPDF(rec)
		return pdf, "application/pdf", base + ".pdf", err
	default:
		return nil, "", "", domain.ValidationError{Field: "format", Msg: "must be json, md, html or pdf"}
	}
}

type reportLine struct {
	label string
	value string
}

func dailyLines(rec models.DailyClose) [][]reportLine {
	m := utils.FormatMoney
	counted := "-"
	if rec.CountedCash != nil {
		counted = m(*rec.CountedCash)
	}
	return [][]reportLine{
		{
			{"Route entries", fmt.Sprintf("%d (%d passengers)", rec.RouteEntries, rec.RoutePassengers)},
			{"Route cash", m(rec.RouteCash)},
			{"Route electronic", m(rec.RouteElectronic)},
			{"Route total", m(rec.RouteTotal)},
		},
		{
			{"Agency entries", fmt.Sprintf("%d", rec.AgencyEntries)},
			{"Agency gross", m(rec.AgencyGross)},
			{"Agency commission", m(rec.AgencyCommission)},
			{"Agency net", m(rec.AgencyNet)},
		},
		{
			{"Tourism received", fmt.Sprintf("%s (%d)", m(rec.TourismReceived), rec.TourismEntries)},
			{"Fuel total", fmt.Sprintf("%s (%d)", m(rec.FuelTotal), rec.FuelEntries)},
			{"Fuel paid in cash", m(rec.FuelCash)},
			{"Expenses", fmt.Sprintf("%s (%d)", m(rec.ExpenseTotal), rec.ExpenseEntries)},
			{"Expenses paid in cash", m(rec.ExpenseCash)},
		},
		{
			{"Revenue total", m(rec.RevenueTotal)},
			{"Cash outflow", m(rec.CashOutflow)},
			{"Expected cash", m(rec.ExpectedCash)},
			{"Counted cash", counted},
			{"Difference", m(rec.Difference)},
		},
	}
}

func statusLine(rec models.DailyClose) string {
	if rec.IsClosed() {
		return fmt.Sprintf("Closed by %s at %s", utils.Fallback(rec.ClosedBy, "-"), utils.HumanTimestamp(rec.ClosedAt))
	}
	return "Open (preview, totals may still change)"
}

// DailyMarkdown renders the summary as a Markdown document with one table.
func DailyMarkdown(rec models.DailyClose) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily close %s\n\n", rec.Date)
	fmt.Fprintf(&b, "_%s_\n\n", statusLine(rec))
	b.WriteString("| Item | Value |\n|---|---:|\n")
	for _, group := range dailyLines(rec) {
		for _, l := range group {
			fmt.Fprintf(&b, "| %s | %s |\n", l.label, l.value)
		}
	}
	if rec.Notes != "" {
		fmt.Fprintf(&b, "\n**Notes:** %s\n", rec.Notes)
	}
	if rec.ReopenReason != "" {
		fmt.Fprintf(&b, "\n**Last reopen:** %s by %s (%s)\n", utils.HumanTimestamp(rec.ReopenedAt), rec.ReopenedBy, rec.ReopenReason)
	}
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// DailyHTML renders DailyMarkdown into a standalone HTML page.
func DailyHTML(rec models.DailyClose) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(DailyMarkdown(rec)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Daily close %s</title></head><body>\n", rec.Date)
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

// DailyPDF renders the summary on one A4 page.
func DailyPDF(rec models.DailyClose) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Daily close "+rec.Date, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DAILY CLOSE "+rec.Date)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, tr(statusLine(rec)))
	pdf.Ln(10)

	for _, group := range dailyLines(rec) {
		for _, l := range group {
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(70, 7, l.label, "B", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(60, 7, tr(l.value), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if rec.Notes != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr("Notes: "+rec.Notes), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PeriodMarkdown renders one row per closed day followed by the totals.
func PeriodMarkdown(rep models.PeriodReport) string {
	m := utils.FormatMoney
	var b strings.Builder
	fmt.Fprintf(&b, "# Period %s to %s\n\n", rep.Start, rep.End)
	fmt.Fprintf(&b, "Closed days: %d\n\n", rep.ClosedDays)
	b.WriteString("| Date | Routes | Agencies (net) | Tourism | Fuel | Expenses | Revenue | Difference |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, d := range rep.Days {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n", d.Date,
			m(d.RouteTotal), m(d.AgencyNet), m(d.TourismReceived), m(d.FuelTotal),
			m(d.ExpenseTotal), m(d.RevenueTotal), m(d.Difference))
	}
	fmt.Fprintf(&b, "| **Total** | %s | %s | %s | %s | %s | %s | %s |\n",
		m(rep.RouteTotal), m(rep.AgencyNet), m(rep.Tourism), m(rep.FuelTotal),
		m(rep.ExpenseTotal), m(rep.RevenueTotal), m(rep.Difference))
	return b.String()
}
