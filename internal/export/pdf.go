package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

// ToPDF renders the campaign report as a PDF. The built-in Helvetica font
// only covers latin-1, so text is sanitized before rendering.
func ToPDF(campaign *entity.Campaign) (*bytes.Buffer, error) {
	if campaign == nil {
		return nil, fmt.Errorf("campaign is nil")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(124, 58, 237)
	pdf.CellFormat(0, 12, latin1("Cold Email Campaign Report"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Company block
	pdf.SetTextColor(0, 0, 0)
	pdfLabelLine(pdf, "Target Company: ", campaign.Company.Name)
	pdfLabelLine(pdf, "Industry: ", campaign.Company.Industry)
	pdfLabelLine(pdf, "Company Size: ", campaign.Company.Size)
	pdfLabelLine(pdf, "Generated: ", time.Now().UTC().Format("January 2, 2006 at 15:04 UTC"))
	pdf.Ln(6)

	brief := campaign.Analysis.StrategicBrief

	pdfSection(pdf, "Strategic Analysis")

	pdfSubsection(pdf, "Top 3 Pain Points")
	for i, pain := range brief.PainPoints {
		pdfBody(pdf, fmt.Sprintf("%d. %s", i+1, pain.PainPoint))
		if pain.Description != "" {
			pdfBody(pdf, pain.Description)
		}
		pdf.Ln(2)
	}

	pdfSubsection(pdf, "Key Objections")
	for _, obj := range brief.Objections {
		pdfBody(pdf, "- "+obj.Objection)
		if obj.ReframeStrategy != "" {
			pdfBody(pdf, "  Reframe: "+obj.ReframeStrategy)
		}
		pdf.Ln(1)
	}

	pdfSubsection(pdf, "Resonant Value Propositions")
	for _, vp := range brief.ValuePropositions {
		pdfBody(pdf, "- "+vp.ValueProp)
		if vp.WhyItWorks != "" {
			pdfBody(pdf, "  "+vp.WhyItWorks)
		}
		pdf.Ln(1)
	}

	pdf.AddPage()
	pdfSection(pdf, "Cold Email Campaigns")

	for _, approach := range entity.Approaches {
		email, ok := campaign.ColdEmails[approach]
		if !ok {
			continue
		}

		pdfSubsection(pdf, "Approach: "+approachTitle(approach))

		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, latin1("SUBJECT: "+email.Subject), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetFillColor(249, 250, 251)
		pdf.MultiCell(0, 5, latin1(email.Body), "1", "L", true)

		if len(email.SubjectVariants) > 0 {
			pdf.Ln(1)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 5, latin1("Alternative Subjects:"), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for i, variant := range email.SubjectVariants {
				pdf.MultiCell(0, 5, latin1(fmt.Sprintf("  %d. %s", i+1, variant)), "", "L", false)
			}
		}
		pdf.Ln(5)
	}

	pdf.AddPage()
	pdfSection(pdf, "Follow-Up Sequence")

	for i, followup := range campaign.FollowUpSequence {
		pdfSubsection(pdf, fmt.Sprintf("Follow-up %d (Day %d)", i+1, followup.Day))

		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, latin1("SUBJECT: "+followup.Subject), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetFillColor(236, 253, 245)
		pdf.MultiCell(0, 5, latin1(followup.Body), "1", "L", true)
		pdf.Ln(5)
	}

	pdf.AddPage()
	pdfSection(pdf, "Strategic Recommendations")
	pdfBody(pdf, campaign.Recommendations.StrategicRecommendations)

	if campaign.Sender != nil {
		pdf.Ln(6)
		pdfSubsection(pdf, "Sender")
		pdfBody(pdf, campaign.Sender.Name)
		pdfBody(pdf, campaign.Sender.Email)
		if campaign.Sender.Phone != "" {
			pdfBody(pdf, campaign.Sender.Phone)
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, latin1("Generated by Cold Email Generator Pro | "+time.Now().UTC().Format("January 2, 2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &buf, nil
}

func pdfSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(91, 33, 182)
	pdf.CellFormat(0, 9, latin1(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func pdfSubsection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(124, 58, 237)
	pdf.CellFormat(0, 7, latin1(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func pdfBody(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, latin1(text), "", "L", false)
}

func pdfLabelLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdf.GetStringWidth(label)+1, 6, latin1(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, latin1(value), "", 1, "L", false, 0, "")
}

// latin1 drops runes the built-in fonts cannot encode.
func latin1(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || (r >= 0x20 && r <= 0xFF) {
			out = append(out, r)
		}
	}
	return string(out)
}
