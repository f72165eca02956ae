package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

const (
	fallbackFollowUpSubject = "Following up"
	fallbackFollowUpBody    = "Follow-up parsing failed"
)

// followupDays is the conventional day schedule, by position.
var followupDays = [3]int{3, 5, 7}

// dayPhrases maps each sequence position to the marker phrasings the models
// actually emit. Matching is case-insensitive substring.
var dayPhrases = [3][]string{
	{"email 1", "day 3", "followup 1", "follow-up 1"},
	{"email 2", "day 5", "followup 2", "follow-up 2"},
	{"email 3", "day 7", "followup 3", "follow-up 3"},
}

// scanState drives the line-by-line follow-up scan.
type scanState int

const (
	stateSeeking scanState = iota // before any day marker
	stateInSubject                // day marker seen, waiting for SUBJECT
	stateInBody                   // subject captured, accumulating body
)

// FollowUps extracts the three-entry follow-up sequence. The primary scan is
// a small state machine keyed on line classification (day marker, subject
// prefix, noise, body text). When it yields fewer than three valid entries a
// SUBJECT-only fallback scan runs, assigning days 3/5/7 in encounter order.
// The result is always padded to exactly three entries with non-empty
// subject and body.
func FollowUps(text string) []entity.FollowUp {
	seq := scanFollowUps(text)
	if len(seq) < 3 {
		if fb := scanSubjectsOnly(text); len(fb) > len(seq) {
			seq = fb
		}
	}
	return padFollowUps(seq)
}

func scanFollowUps(text string) []entity.FollowUp {
	var seq []entity.FollowUp
	var current entity.FollowUp
	var bodyLines []string
	state := stateSeeking

	flush := func() {
		body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		if current.Subject != "" && body != "" {
			current.Body = body
			seq = append(seq, current)
		}
		bodyLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if idx := dayMarkerIndex(trimmed); idx >= 0 {
			flush()
			current = entity.FollowUp{Day: followupDays[idx]}
			state = stateInSubject
			continue
		}

		if state == stateSeeking {
			continue
		}

		if subject, ok := cutSubject(trimmed); ok {
			current.Subject = subject
			state = stateInBody
			continue
		}

		if state == stateInBody && trimmed != "" && !isNoise(trimmed) {
			bodyLines = append(bodyLines, trimmed)
		}
	}
	flush()

	return seq
}

// scanSubjectsOnly is the permissive fallback: every SUBJECT line starts an
// entry regardless of day markers; entries past the third default to day 7.
func scanSubjectsOnly(text string) []entity.FollowUp {
	var seq []entity.FollowUp
	var subject string
	var bodyLines []string
	started := false

	flush := func() {
		if !started {
			return
		}
		body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		if subject != "" && body != "" {
			day := followupDays[2]
			if len(seq) < len(followupDays) {
				day = followupDays[len(seq)]
			}
			seq = append(seq, entity.FollowUp{Day: day, Subject: subject, Body: body})
		}
		bodyLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if next, ok := cutSubject(trimmed); ok {
			flush()
			subject = next
			started = true
			continue
		}
		if started && trimmed != "" && !isNoise(trimmed) {
			bodyLines = append(bodyLines, trimmed)
		}
	}
	flush()

	return seq
}

func padFollowUps(seq []entity.FollowUp) []entity.FollowUp {
	out := make([]entity.FollowUp, 0, 3)
	for i := 0; i < 3; i++ {
		if i < len(seq) {
			out = append(out, seq[i])
			continue
		}
		out = append(out, entity.FollowUp{
			Day:     followupDays[i],
			Subject: fallbackFollowUpSubject,
			Body:    fallbackFollowUpBody,
		})
	}
	return out
}

// dayMarkerIndex classifies a line as a day marker, returning the sequence
// position it announces or -1.
func dayMarkerIndex(line string) int {
	lower := strings.ToLower(line)
	for i, phrases := range dayPhrases {
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				return i
			}
		}
	}
	return -1
}

// cutSubject matches a case-insensitive SUBJECT: prefix and returns the
// trimmed remainder.
func cutSubject(line string) (string, bool) {
	if len(line) < len(subjectPrefix) {
		return "", false
	}
	if !strings.EqualFold(line[:len(subjectPrefix)], subjectPrefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(subjectPrefix):]), true
}

// isNoise filters separator and label lines out of follow-up bodies:
// BODY: labels, repeated-punctuation separators, degenerate short lines and
// short markdown headings.
func isNoise(trimmed string) bool {
	if strings.Contains(trimmed, "BODY:") || strings.Contains(trimmed, "Body:") {
		return true
	}
	if isSeparator(trimmed) {
		return true
	}
	if utf8.RuneCountInString(trimmed) < 3 {
		return true
	}
	if strings.HasPrefix(trimmed, "#") && utf8.RuneCountInString(trimmed) < 30 {
		return true
	}
	return false
}

func isSeparator(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if !strings.ContainsRune("-=*_~─━═ ", r) {
			return false
		}
	}
	return true
}
