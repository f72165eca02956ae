// Package export renders a campaign into downloadable documents. Both
// exporters are pure functions of the campaign record.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

const (
	colorPurple     = "7C3AED"
	colorDarkPurple = "5B21B6"
	colorGreen      = "10B981"
	colorGray       = "6B7280"
)

// approachTitle renders an approach tag as a heading, e.g. "Problem Aware".
func approachTitle(approach string) string {
	words := strings.Split(approach, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// ToDOCX renders the campaign report as a Word document.
func ToDOCX(campaign *entity.Campaign) (*bytes.Buffer, error) {
	if campaign == nil {
		return nil, fmt.Errorf("campaign is nil")
	}

	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText("Cold Email Campaign Report").Size("40").Color(colorPurple).Bold()

	doc.AddParagraph()

	info := doc.AddParagraph()
	info.AddText("Target Company: ").Bold()
	info.AddText(campaign.Company.Name)
	info = doc.AddParagraph()
	info.AddText("Industry: ").Bold()
	info.AddText(campaign.Company.Industry)
	info = doc.AddParagraph()
	info.AddText("Company Size: ").Bold()
	info.AddText(campaign.Company.Size)
	info = doc.AddParagraph()
	info.AddText("Generated: ").Bold()
	info.AddText(time.Now().UTC().Format("January 2, 2006 at 15:04 UTC"))

	doc.AddParagraph()

	docxHeading(doc, "Strategic Analysis", colorDarkPurple, "32")

	brief := campaign.Analysis.StrategicBrief

	docxHeading(doc, "Top 3 Pain Points", colorPurple, "26")
	for i, pain := range brief.PainPoints {
		p := doc.AddParagraph()
		p.AddText(fmt.Sprintf("%d. %s", i+1, pain.PainPoint)).Bold()
		if pain.Description != "" {
			doc.AddParagraph().AddText(pain.Description)
		}
		if pain.HiddenCost != "" {
			line := doc.AddParagraph()
			line.AddText("Hidden cost: ").Color(colorGray)
			line.AddText(pain.HiddenCost).Color(colorGray)
		}
	}

	docxHeading(doc, "Key Objections", colorPurple, "26")
	for _, obj := range brief.Objections {
		p := doc.AddParagraph()
		p.AddText("- " + obj.Objection).Bold()
		if obj.ReframeStrategy != "" {
			doc.AddParagraph().AddText("Reframe: " + obj.ReframeStrategy)
		}
	}

	docxHeading(doc, "Resonant Value Propositions", colorPurple, "26")
	for _, vp := range brief.ValuePropositions {
		p := doc.AddParagraph()
		p.AddText("- " + vp.ValueProp).Bold()
		if vp.WhyItWorks != "" {
			doc.AddParagraph().AddText(vp.WhyItWorks)
		}
	}

	docxHeading(doc, "Cold Email Campaigns", colorDarkPurple, "32")

	for _, approach := range entity.Approaches {
		email, ok := campaign.ColdEmails[approach]
		if !ok {
			continue
		}

		docxHeading(doc, "Approach: "+approachTitle(approach), colorPurple, "26")

		subject := doc.AddParagraph()
		subject.AddText("SUBJECT: ").Bold()
		subject.AddText(email.Subject)

		for _, line := range strings.Split(email.Body, "\n") {
			doc.AddParagraph().AddText(line)
		}

		if len(email.SubjectVariants) > 0 {
			doc.AddParagraph().AddText("Alternative Subjects:").Bold()
			for i, variant := range email.SubjectVariants {
				doc.AddParagraph().AddText(fmt.Sprintf("  %d. %s", i+1, variant))
			}
		}

		doc.AddParagraph()
	}

	docxHeading(doc, "Follow-Up Sequence", colorDarkPurple, "32")

	for i, followup := range campaign.FollowUpSequence {
		docxHeading(doc, fmt.Sprintf("Follow-up %d (Day %d)", i+1, followup.Day), colorGreen, "26")

		subject := doc.AddParagraph()
		subject.AddText("SUBJECT: ").Bold()
		subject.AddText(followup.Subject)

		for _, line := range strings.Split(followup.Body, "\n") {
			doc.AddParagraph().AddText(line)
		}
		doc.AddParagraph()
	}

	docxHeading(doc, "Strategic Recommendations", colorDarkPurple, "32")
	for _, line := range strings.Split(campaign.Recommendations.StrategicRecommendations, "\n") {
		doc.AddParagraph().AddText(line)
	}

	if campaign.Sender != nil {
		doc.AddParagraph()
		docxHeading(doc, "Sender", colorGray, "26")
		doc.AddParagraph().AddText(campaign.Sender.Name)
		doc.AddParagraph().AddText(campaign.Sender.Email)
		if campaign.Sender.Phone != "" {
			doc.AddParagraph().AddText(campaign.Sender.Phone)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return &buf, nil
}

func docxHeading(doc *docx.Docx, text, color, size string) {
	p := doc.AddParagraph()
	p.AddText(text).Size(size).Color(color).Bold()
}
