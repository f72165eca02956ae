package parse

import (
	"encoding/json"
	"strings"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

// Analysis decodes the stage-1 strategic brief. The model is asked for a
// fenced JSON block but does not reliably produce one; any decode failure
// yields the canonical-but-empty brief with the cleaned text kept under
// RawAnalysis so the pipeline never aborts on malformed analysis.
func Analysis(text string) entity.Analysis {
	cleaned := stripFence(strings.TrimSpace(text))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return entity.Analysis{StrategicBrief: emptyBrief(), RawAnalysis: cleaned}
	}

	brief := emptyBrief()
	decodeField(fields, &brief.PainPoints, "top_3_pain_points", "pain_points")
	decodeField(fields, &brief.Objections, "key_objections", "objections")
	decodeField(fields, &brief.ValuePropositions, "resonant_value_propositions", "value_propositions")
	decodeField(fields, &brief.ApproachStrategy, "approach_strategy", "strategy")
	decodeField(fields, &brief.Hooks, "hooks_and_pattern_interrupts", "hooks")

	if len(brief.PainPoints) > 3 {
		brief.PainPoints = brief.PainPoints[:3]
	}

	return entity.Analysis{StrategicBrief: brief, RawAnalysis: cleaned}
}

// emptyBrief returns the canonical empty structure with non-nil lists.
func emptyBrief() entity.StrategicBrief {
	return entity.StrategicBrief{
		PainPoints:        []entity.PainPoint{},
		Objections:        []entity.Objection{},
		ValuePropositions: []entity.ValueProposition{},
		Hooks:             []entity.Hook{},
	}
}

// decodeField assigns the first key that is present and decodes cleanly.
// Both historical key spellings map to the same canonical field; when
// neither key exists the field keeps its empty default.
func decodeField[T any](fields map[string]json.RawMessage, dst *T, keys ...string) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			*dst = value
		}
		return
	}
}

// stripFence removes a surrounding code-fence wrapper when the first line
// starts with a fence marker and the block spans more than two lines.
func stripFence(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 2 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		return text
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
