// Package generate runs the staged campaign pipeline: one analysis call,
// five concurrent email calls, then two concurrent calls for follow-ups and
// recommendations. Call failures abort the pipeline; malformed text does
// not, the parsers degrade instead.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/llm"
	"github.com/blazestudiox/coldforge/api/internal/parse"
	"github.com/blazestudiox/coldforge/api/internal/prompt"
)

const (
	analysisMaxTokens        = 4000
	analysisTemperature      = 0.7
	emailMaxTokens           = 1024
	emailTemperature         = 0.8
	followupMaxTokens        = 1500
	followupTemperature      = 0.7
	recommendationsMaxTokens = 3000
	recommendationsTemp      = 0.7

	// streamBuffer exceeds the total event count of one run so producers
	// never block on an abandoned consumer.
	streamBuffer = 16
)

// Params carries one generation request through the pipeline.
type Params struct {
	CompanyName string
	Industry    string
	Offer       string
	Style       string
	CompanySize string
}

// Generator drives the staged pipeline against one model client.
type Generator struct {
	client llm.Client

	// Observe, when set, receives per-stage wall-clock durations.
	Observe func(stage string, d time.Duration)
}

// New builds a Generator on the given client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) observe(stage string, started time.Time) {
	if g.Observe != nil {
		g.Observe(stage, time.Since(started))
	}
}

// Generate runs the full pipeline and returns the assembled campaign.
// The first failing provider call aborts the run.
func (g *Generator) Generate(ctx context.Context, p Params) (*entity.Campaign, error) {
	if p.CompanySize == "" {
		p.CompanySize = "unknown"
	}

	analysis, err := g.runAnalysis(ctx, p)
	if err != nil {
		return nil, err
	}

	emails, err := g.runEmails(ctx, p, analysis)
	if err != nil {
		return nil, err
	}

	followups, recs, err := g.runFollowupsAndRecommendations(ctx, analysis, emails)
	if err != nil {
		return nil, err
	}

	return assemble(p, analysis, emails, followups, recs), nil
}

// GenerateStream runs the same pipeline but emits an event per completed
// unit of work. Email events are delivered in canonical approach order even
// though the underlying calls finish in arbitrary order. The channel is
// buffered past the total event count, so an abandoned consumer never
// blocks in-flight work. On the first call failure a single error event is
// emitted and the stream closes.
func (g *Generator) GenerateStream(ctx context.Context, p Params) <-chan Event {
	events := make(chan Event, streamBuffer)

	go func() {
		defer close(events)

		if p.CompanySize == "" {
			p.CompanySize = "unknown"
		}

		events <- Event{Type: EventStarted, Stage: "analysis"}
		analysis, err := g.runAnalysis(ctx, p)
		if err != nil {
			events <- Event{Type: EventError, Error: err.Error()}
			return
		}
		events <- Event{Type: EventAnalysis, Analysis: &analysis}

		events <- Event{Type: EventStarted, Stage: "emails"}
		type slot struct {
			email entity.EmailVariant
			err   error
			done  chan struct{}
		}
		slots := make([]*slot, len(entity.Approaches))
		analysisJSON := analysisContext(analysis)
		for i, approach := range entity.Approaches {
			s := &slot{done: make(chan struct{})}
			slots[i] = s
			go func(approach string) {
				defer close(s.done)
				s.email, s.err = g.callEmail(ctx, analysisJSON, approach, p.Style)
			}(approach)
		}

		emails := make(map[string]entity.EmailVariant, len(entity.Approaches))
		for i, approach := range entity.Approaches {
			<-slots[i].done
			if slots[i].err != nil {
				events <- Event{Type: EventError, Error: slots[i].err.Error()}
				return
			}
			email := slots[i].email
			emails[approach] = email
			events <- Event{Type: EventEmail, Approach: approach, Email: &email}
		}

		events <- Event{Type: EventStarted, Stage: "finalize"}
		followups, recs, err := g.runFollowupsAndRecommendations(ctx, analysis, emails)
		if err != nil {
			events <- Event{Type: EventError, Error: err.Error()}
			return
		}
		events <- Event{Type: EventFollowUps, FollowUps: followups}
		events <- Event{Type: EventRecommendations, Recommendations: &recs}

		events <- Event{Type: EventComplete, Campaign: assemble(p, analysis, emails, followups, recs)}
	}()

	return events
}

// DemoResult is the reduced output of a demo run: the strategic brief and
// one problem_aware email.
type DemoResult struct {
	Analysis entity.Analysis     `json:"analysis"`
	Email    entity.EmailVariant `json:"email"`
}

// Demo runs a cut-down pipeline: analysis plus a single problem_aware
// email. Used by the unauthenticated demo endpoint.
func (g *Generator) Demo(ctx context.Context, p Params) (*DemoResult, error) {
	if p.CompanySize == "" {
		p.CompanySize = "unknown"
	}

	analysis, err := g.runAnalysis(ctx, p)
	if err != nil {
		return nil, err
	}

	email, err := g.callEmail(ctx, analysisContext(analysis), entity.ApproachProblemAware, p.Style)
	if err != nil {
		return nil, err
	}

	return &DemoResult{Analysis: analysis, Email: email}, nil
}

func (g *Generator) runAnalysis(ctx context.Context, p Params) (entity.Analysis, error) {
	started := time.Now()
	system, user := prompt.Analysis(p.CompanyName, p.Industry, p.Offer, p.CompanySize)
	text, err := g.client.Generate(ctx, llm.Request{
		System:      system,
		User:        user,
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("analysis stage: %w", err)
	}
	g.observe("analysis", started)
	return parse.Analysis(text), nil
}

// runEmails dispatches the five approach calls concurrently and joins them
// all. Each goroutine writes only its own slot; the first error wins.
func (g *Generator) runEmails(ctx context.Context, p Params, analysis entity.Analysis) (map[string]entity.EmailVariant, error) {
	started := time.Now()
	analysisJSON := analysisContext(analysis)

	results := make([]entity.EmailVariant, len(entity.Approaches))
	errs := make([]error, len(entity.Approaches))

	var wg sync.WaitGroup
	for i, approach := range entity.Approaches {
		wg.Add(1)
		go func(i int, approach string) {
			defer wg.Done()
			results[i], errs[i] = g.callEmail(ctx, analysisJSON, approach, p.Style)
		}(i, approach)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	emails := make(map[string]entity.EmailVariant, len(entity.Approaches))
	for i, approach := range entity.Approaches {
		emails[approach] = results[i]
	}
	g.observe("emails", started)
	return emails, nil
}

func (g *Generator) callEmail(ctx context.Context, analysisJSON, approach, style string) (entity.EmailVariant, error) {
	system, user := prompt.Email(analysisJSON, approach, style)
	text, err := g.client.Generate(ctx, llm.Request{
		System:      system,
		User:        user,
		MaxTokens:   emailMaxTokens,
		Temperature: emailTemperature,
	})
	if err != nil {
		return entity.EmailVariant{}, fmt.Errorf("email stage (%s): %w", approach, err)
	}
	return parse.SingleEmail(approach, text), nil
}

func (g *Generator) runFollowupsAndRecommendations(ctx context.Context, analysis entity.Analysis, emails map[string]entity.EmailVariant) ([]entity.FollowUp, entity.Recommendations, error) {
	started := time.Now()

	var (
		wg        sync.WaitGroup
		followups []entity.FollowUp
		recs      entity.Recommendations
		fuErr     error
		recErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		system, user := prompt.FollowUps(emails[entity.ApproachProblemAware].Body, analysisContext(analysis))
		text, err := g.client.Generate(ctx, llm.Request{
			System:      system,
			User:        user,
			MaxTokens:   followupMaxTokens,
			Temperature: followupTemperature,
		})
		if err != nil {
			fuErr = fmt.Errorf("followup stage: %w", err)
			return
		}
		followups = parse.FollowUps(text)
	}()
	go func() {
		defer wg.Done()
		system, user := prompt.Recommendations(emailDigest(emails))
		text, err := g.client.Generate(ctx, llm.Request{
			System:      system,
			User:        user,
			MaxTokens:   recommendationsMaxTokens,
			Temperature: recommendationsTemp,
		})
		if err != nil {
			recErr = fmt.Errorf("recommendations stage: %w", err)
			return
		}
		recs = entity.Recommendations{StrategicRecommendations: strings.TrimSpace(text)}
	}()
	wg.Wait()

	if fuErr != nil {
		return nil, entity.Recommendations{}, fuErr
	}
	if recErr != nil {
		return nil, entity.Recommendations{}, recErr
	}
	g.observe("finalize", started)
	return followups, recs, nil
}

func assemble(p Params, analysis entity.Analysis, emails map[string]entity.EmailVariant, followups []entity.FollowUp, recs entity.Recommendations) *entity.Campaign {
	return &entity.Campaign{
		Company: entity.Company{
			Name:     p.CompanyName,
			Industry: p.Industry,
			Size:     p.CompanySize,
		},
		Analysis:         analysis,
		ColdEmails:       emails,
		FollowUpSequence: followups,
		Recommendations:  recs,
		Style:            p.Style,
	}
}

// analysisContext serializes the strategic brief for downstream prompts.
// When stage 1 produced no structured fields the raw text is passed
// through instead, so later stages still get whatever the model said.
func analysisContext(a entity.Analysis) string {
	if len(a.StrategicBrief.PainPoints) == 0 && a.RawAnalysis != "" {
		return a.RawAnalysis
	}
	data, err := json.Marshal(a.StrategicBrief)
	if err != nil {
		return a.RawAnalysis
	}
	return string(data)
}

// emailDigest concatenates all five emails under approach headers for the
// recommendations prompt.
func emailDigest(emails map[string]entity.EmailVariant) string {
	var b strings.Builder
	for _, approach := range entity.Approaches {
		email := emails[approach]
		fmt.Fprintf(&b, "=== %s ===\nSUBJECT: %s\n\n%s\n\n", strings.ToUpper(approach), email.Subject, email.Body)
	}
	return b.String()
}
