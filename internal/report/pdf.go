// Package report renders completed risk assessments as single-page A4 PDFs.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Data is everything the renderer needs for one report.
type Data struct {
	CompanyName      string
	Industry         string
	Region           string
	OverallRiskScore float64
	RiskLevel        string

	Disruptions  DisruptionMetric
	CostIncrease CostMetric
	SupplierRisk SupplierMetric

	TopRisks       []Risk
	KeyInsights    []Insight
	RiskCategories []CategoryScore
	Sources        []string

	GeneratedAt time.Time
}

type DisruptionMetric struct {
	Count              int
	ChangeFromLastYear float64
}

type CostMetric struct {
	Percentage float64
	Period     string
}

type SupplierMetric struct {
	Percentage float64
	Level      string
}

type Risk struct {
	Factor string
	Score  float64
	Source string
}

type Insight struct {
	Title       string
	Description string
}

type CategoryScore struct {
	Name            string
	BusinessScore   float64
	IndustryAverage float64
}

const margin = 15.0

// riskColor maps a 0-100 score to the severity color ramp.
func riskColor(score float64) (int, int, int) {
	switch {
	case score < 40:
		return 16, 185, 129
	case score < 60:
		return 245, 158, 11
	case score < 80:
		return 249, 115, 22
	default:
		return 239, 68, 68
	}
}

// Generate renders the report and returns the PDF bytes.
func Generate(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - margin*2

	pdf.SetTextColor(50, 50, 50)

	// Header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin-4)
	pdf.CellFormat(contentWidth, 6, "SUPPLY CHAIN RISK ASSESSMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(margin)
	pdf.CellFormat(contentWidth, 5,
		fmt.Sprintf("Prepared for: %s | Industry: %s | Region: %s", data.CompanyName, data.Industry, data.Region),
		"", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetX(margin)
	pdf.CellFormat(contentWidth, 5,
		fmt.Sprintf("Report Date: %s | CONFIDENTIAL", data.GeneratedAt.Format("Jan 2, 2006")),
		"", 1, "C", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin, margin+12, pageWidth-margin, margin+12)

	// Risk score panel
	y := margin + 18
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "RISK ASSESSMENT SUMMARY")

	y += 5
	const scoreBoxWidth, scoreBoxHeight = 60.0, 25.0

	r, g, b := riskColor(data.OverallRiskScore)
	pdf.SetFillColor(r, g, b)
	pdf.RoundedRect(margin, y, scoreBoxWidth, scoreBoxHeight, 2, "1234", "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin+10, y+15, fmt.Sprintf("%.0f", data.OverallRiskScore))
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin+25, y+15, "/100")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin+40, y+15, fmt.Sprintf("%s Risk", data.RiskLevel))

	pdf.SetTextColor(50, 50, 50)

	// Key metrics beside the score box
	metricsX := margin + scoreBoxWidth + 10
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(metricsX, y+5, "KEY METRICS")

	pdf.SetFont("Helvetica", "", 8)
	change := fmt.Sprintf("%.0f", data.Disruptions.ChangeFromLastYear)
	if data.Disruptions.ChangeFromLastYear > 0 {
		change = "+" + change
	}
	metrics := []string{
		fmt.Sprintf("Supply Chain Disruptions: %d (%s)", data.Disruptions.Count, change),
		fmt.Sprintf("Cost Increase: %.0f%% (%s)", data.CostIncrease.Percentage, data.CostIncrease.Period),
		fmt.Sprintf("Supplier Risk: %.0f%% (%s)", data.SupplierRisk.Percentage, data.SupplierRisk.Level),
	}
	for i, line := range metrics {
		pdf.Text(metricsX, y+10+float64(i)*4.5, line)
	}

	y += scoreBoxHeight + 5
	pdf.Line(margin, y, pageWidth-margin, y)
	y += 5

	// Top risk factors table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "TOP RISK FACTORS")
	y += 3

	factorWidth := contentWidth * 0.6
	scoreWidth := contentWidth * 0.1
	sourceWidth := contentWidth * 0.3

	pdf.SetXY(margin, y)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(80, 80, 80)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(factorWidth, 6, "Risk Factor", "1", 0, "L", true, 0, "")
	pdf.CellFormat(scoreWidth, 6, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sourceWidth, 6, "Source", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetDrawColor(200, 200, 200)
	risks := data.TopRisks
	if len(risks) > 5 {
		risks = risks[:5]
	}
	for _, risk := range risks {
		pdf.SetX(margin)
		pdf.CellFormat(factorWidth, 6, truncate(risk.Factor, 90), "1", 0, "L", false, 0, "")
		pdf.CellFormat(scoreWidth, 6, fmt.Sprintf("%.1f", risk.Score), "1", 0, "C", false, 0, "")
		pdf.CellFormat(sourceWidth, 6, truncate(risk.Source, 40), "1", 1, "L", false, 0, "")
	}
	y = pdf.GetY() + 5

	// Risk categories as horizontal bars
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "RISK CATEGORIES")
	y += 5

	barWidth := contentWidth * 0.6
	nameWidth := contentWidth * 0.25

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(margin, y, "Category")
	pdf.Text(margin+nameWidth+barWidth+5, y, "Score")
	y += 3

	categories := data.RiskCategories
	if len(categories) > 5 {
		categories = categories[:5]
	}
	for i, cat := range categories {
		barY := y + float64(i)*7

		pdf.SetFont("Helvetica", "", 7)
		pdf.Text(margin, barY, truncate(cat.Name, 34))

		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(margin+nameWidth, barY-3, barWidth, 4, "F")

		r, g, b := riskColor(cat.BusinessScore * 10)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(margin+nameWidth, barY-3, cat.BusinessScore/10*barWidth, 4, "F")

		pdf.SetFont("Helvetica", "B", 7)
		pdf.Text(margin+nameWidth+barWidth+5, barY, fmt.Sprintf("%.1f", cat.BusinessScore))

		// Industry-average marker as a vertical tick across the bar.
		avgX := margin + nameWidth + cat.IndustryAverage/10*barWidth
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.5)
		pdf.Line(avgX, barY-4, avgX, barY+1)
	}
	y += 38

	// Key insights
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "KEY INSIGHTS")
	y += 5

	insights := data.KeyInsights
	if len(insights) > 3 {
		insights = insights[:3]
	}
	for i, insight := range insights {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.Text(margin, y, fmt.Sprintf("%d. %s", i+1, insight.Title))

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(margin, y+1)
		pdf.MultiCell(contentWidth, 4, truncate(insight.Description, 100), "", "L", false)
		y = pdf.GetY() + 4
	}

	// Data sources in a three-column grid
	y += 3
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, "DATA SOURCES")
	y += 5

	if len(data.Sources) > 0 {
		const sourcesPerRow = 3
		sourceWidth := contentWidth / sourcesPerRow

		pdf.SetFont("Helvetica", "", 6)
		shown := len(data.Sources)
		if shown > 9 {
			shown = 9
		}
		for i := 0; i < shown; i++ {
			col := i % sourcesPerRow
			row := i / sourcesPerRow
			pdf.Text(margin+float64(col)*sourceWidth, y+float64(row)*4, "- "+truncate(data.Sources[i], 38))
		}
		if len(data.Sources) > 9 {
			y += 12
			pdf.Text(margin, y, fmt.Sprintf("+ %d more sources", len(data.Sources)-9))
		}
	}

	// Footer
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin, pageHeight-margin-8, pageWidth-margin, pageHeight-margin-8)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(margin, pageHeight-margin-3, "Analyzed by Arcscan")
	attribution := "Powered by Google Gemini"
	pdf.Text(pageWidth-margin-pdf.GetStringWidth(attribution), pageHeight-margin-3, attribution)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
