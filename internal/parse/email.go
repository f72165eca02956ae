package parse

import (
	"strings"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

const (
	subjectPrefix = "SUBJECT:"
	variantPrefix = "VARIANT_"
	markerPrefix  = "---"

	fallbackEmailSubject = "Quick question"
	fallbackEmailBody    = "Email parsing failed"

	maxSubjectVariants = 2
)

// approachMarker returns the delimiter the prompts request per approach,
// e.g. ---PROBLEM_AWARE--- for problem_aware.
func approachMarker(approach string) string {
	return markerPrefix + strings.ToUpper(approach) + markerPrefix
}

// EmailSet extracts the five approach emails from one marker-delimited
// response. Any approach whose chunk cannot be located gets a synthesized
// fallback entry; the returned map always carries all five approach keys.
func EmailSet(text string) map[string]entity.EmailVariant {
	emails := make(map[string]entity.EmailVariant, len(entity.Approaches))

	for _, approach := range entity.Approaches {
		start := strings.Index(text, approachMarker(approach))
		if start < 0 {
			emails[approach] = FallbackEmail(approach)
			continue
		}
		start += len(approachMarker(approach))

		// Chunk ends at the nearest of the other four markers, or EOF.
		end := len(text)
		for _, other := range entity.Approaches {
			if other == approach {
				continue
			}
			if pos := strings.Index(text[start:], approachMarker(other)); pos >= 0 && start+pos < end {
				end = start + pos
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		subject, variants, body := scanEmailLines(chunk)
		if subject == "" {
			subject = fallbackEmailSubject
		}
		if body == "" {
			body = chunk
		}
		emails[approach] = entity.EmailVariant{
			Approach:        approach,
			Subject:         subject,
			SubjectVariants: variants,
			Body:            body,
			RawText:         chunk,
		}
	}

	return emails
}

// SingleEmail parses one response that carries a single email with its own
// inline subject variants. Body accumulation starts at the SUBJECT line and
// stops at the first VARIANT_ line so variants are not swallowed into the
// body. When no SUBJECT line exists at all, the entire raw text becomes the
// body under a generic subject; the body is never empty for non-blank input.
func SingleEmail(approach, text string) entity.EmailVariant {
	raw := strings.TrimSpace(text)

	subject := ""
	variants := []string{}
	var bodyLines []string
	inBody := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, subjectPrefix):
			if subject == "" {
				subject = strings.TrimSpace(strings.TrimPrefix(trimmed, subjectPrefix))
			}
			inBody = true
		case strings.HasPrefix(trimmed, variantPrefix):
			inBody = false
			if _, value, ok := strings.Cut(trimmed, ":"); ok && len(variants) < maxSubjectVariants {
				variants = append(variants, strings.TrimSpace(value))
			}
		case inBody && trimmed != "" && !strings.HasPrefix(trimmed, markerPrefix):
			bodyLines = append(bodyLines, trimmed)
		}
	}

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if subject == "" {
		subject = fallbackEmailSubject
		body = raw
	}
	if body == "" {
		body = raw
	}

	return entity.EmailVariant{
		Approach:        approach,
		Subject:         subject,
		SubjectVariants: variants,
		Body:            body,
		RawText:         raw,
	}
}

// FallbackEmail is the placeholder substituted when an approach's text
// cannot be located at all.
func FallbackEmail(approach string) entity.EmailVariant {
	return entity.EmailVariant{
		Approach:        approach,
		Subject:         fallbackEmailSubject,
		SubjectVariants: []string{},
		Body:            fallbackEmailBody,
		RawText:         "",
	}
}

// scanEmailLines applies the shared SUBJECT/VARIANT_ line protocol to one
// chunk. First SUBJECT match wins; at most two variants are kept; remaining
// non-empty, non-marker lines become the body.
func scanEmailLines(chunk string) (subject string, variants []string, body string) {
	variants = []string{}
	var bodyLines []string

	for _, line := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, subjectPrefix):
			if subject == "" {
				subject = strings.TrimSpace(strings.TrimPrefix(trimmed, subjectPrefix))
			}
		case strings.HasPrefix(trimmed, variantPrefix):
			if _, value, ok := strings.Cut(trimmed, ":"); ok && len(variants) < maxSubjectVariants {
				variants = append(variants, strings.TrimSpace(value))
			}
		case trimmed != "" && !strings.HasPrefix(trimmed, markerPrefix):
			bodyLines = append(bodyLines, trimmed)
		}
	}

	return subject, variants, strings.TrimSpace(strings.Join(bodyLines, "\n"))
}
