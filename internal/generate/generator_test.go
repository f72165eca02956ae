package generate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/llm"
)

// fakeClient scripts responses per pipeline stage, keyed on the request's
// token budget. failApproach, when set, fails the matching email call.
type fakeClient struct {
	mu           sync.Mutex
	calls        int
	failAnalysis bool
	failApproach string
	failFollowup bool
}

const fakeAnalysisJSON = `{"top_3_pain_points":[{"pain_point":"slow ramp"}],"approach_strategy":{"primary":"problem_aware"}}`

func (f *fakeClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	switch req.MaxTokens {
	case 4000:
		if f.failAnalysis {
			return "", &llm.ProviderError{Provider: llm.ProviderAnthropic, StatusCode: 500, Message: "boom"}
		}
		return fakeAnalysisJSON, nil
	case 1024:
		approach := approachFromPrompt(req.User)
		if approach == f.failApproach {
			return "", &llm.TimeoutError{Provider: llm.ProviderAnthropic}
		}
		return "SUBJECT: subject for " + approach + "\nbody for " + approach + "\nVARIANT_1: alt one\nVARIANT_2: alt two\n", nil
	case 1500:
		if f.failFollowup {
			return "", &llm.ProviderError{Provider: llm.ProviderAnthropic, StatusCode: 500, Message: "boom"}
		}
		return `Email 1 (Day 3):
SUBJECT: first bump
value add body

Email 2 (Day 5):
SUBJECT: second bump
different angle body

Email 3 (Day 7):
SUBJECT: third bump
permission to close body
`, nil
	case 3000:
		return "## 1. OPTIMAL SEND TIME\nTuesday morning.\n", nil
	default:
		return "", errors.New("unexpected token budget")
	}
}

// approachFromPrompt recovers the approach tag from the stage-2 user prompt.
func approachFromPrompt(user string) string {
	for _, approach := range entity.Approaches {
		if strings.Contains(user, "Approach: "+approach+"\n") {
			return approach
		}
	}
	return ""
}

func TestGenerator_Generate(t *testing.T) {
	g := New(&fakeClient{})

	campaign, err := g.Generate(context.Background(), Params{
		CompanyName: "Acme",
		Industry:    "logistics",
		Offer:       "route optimization software for regional fleets",
		Style:       "professional",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if campaign.Company.Name != "Acme" || campaign.Company.Size != "unknown" {
		t.Fatalf("unexpected company: %+v", campaign.Company)
	}
	if len(campaign.ColdEmails) != len(entity.Approaches) {
		t.Fatalf("expected %d emails, got %d", len(entity.Approaches), len(campaign.ColdEmails))
	}
	for _, approach := range entity.Approaches {
		email := campaign.ColdEmails[approach]
		if email.Subject != "subject for "+approach {
			t.Fatalf("unexpected subject for %q: %q", approach, email.Subject)
		}
		if len(email.SubjectVariants) != 2 {
			t.Fatalf("unexpected variants for %q: %+v", approach, email.SubjectVariants)
		}
	}
	if len(campaign.FollowUpSequence) != 3 {
		t.Fatalf("expected 3 followups, got %d", len(campaign.FollowUpSequence))
	}
	subjects := []string{"first bump", "second bump", "third bump"}
	bodies := []string{"value add body", "different angle body", "permission to close body"}
	for i, day := range []int{3, 5, 7} {
		if campaign.FollowUpSequence[i].Subject != subjects[i] {
			t.Fatalf("followup %d: unexpected subject %q", i, campaign.FollowUpSequence[i].Subject)
		}
		if campaign.FollowUpSequence[i].Body != bodies[i] {
			t.Fatalf("followup %d: unexpected body %q", i, campaign.FollowUpSequence[i].Body)
		}
		if campaign.FollowUpSequence[i].Day != day {
			t.Fatalf("followup %d: expected day %d, got %d", i, day, campaign.FollowUpSequence[i].Day)
		}
	}
	if !strings.Contains(campaign.Recommendations.StrategicRecommendations, "OPTIMAL SEND TIME") {
		t.Fatalf("unexpected recommendations: %q", campaign.Recommendations.StrategicRecommendations)
	}
	if len(campaign.Analysis.StrategicBrief.PainPoints) != 1 {
		t.Fatalf("unexpected analysis: %+v", campaign.Analysis.StrategicBrief)
	}
}

func TestGenerator_Generate_EmailFailure(t *testing.T) {
	g := New(&fakeClient{failApproach: entity.ApproachCuriosity})

	_, err := g.Generate(context.Background(), Params{CompanyName: "Acme", Industry: "x", Offer: "y"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "email stage") {
		t.Fatalf("unexpected error: %v", err)
	}
	var te *llm.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected wrapped TimeoutError, got %v", err)
	}
}

func TestGenerator_Generate_AnalysisFailure(t *testing.T) {
	g := New(&fakeClient{failAnalysis: true})

	_, err := g.Generate(context.Background(), Params{CompanyName: "Acme"})
	if err == nil || !strings.Contains(err.Error(), "analysis stage") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerator_GenerateStream(t *testing.T) {
	g := New(&fakeClient{})

	var events []Event
	for event := range g.GenerateStream(context.Background(), Params{CompanyName: "Acme", Industry: "x", Offer: "y"}) {
		events = append(events, event)
	}

	var types []string
	for _, e := range events {
		types = append(types, string(e.Type))
	}
	want := []string{
		"started", "analysis",
		"started", "email", "email", "email", "email", "email",
		"started", "followups", "recommendations", "complete",
	}
	if len(types) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q (%v)", i, want[i], types[i], types)
		}
	}

	// Email events arrive in canonical approach order.
	var emailOrder []string
	for _, e := range events {
		if e.Type == EventEmail {
			emailOrder = append(emailOrder, e.Approach)
		}
	}
	for i, approach := range entity.Approaches {
		if emailOrder[i] != approach {
			t.Fatalf("email order mismatch at %d: %v", i, emailOrder)
		}
	}

	final := events[len(events)-1]
	if final.Campaign == nil || len(final.Campaign.ColdEmails) != 5 {
		t.Fatalf("complete event missing campaign: %+v", final)
	}
}

func TestGenerator_GenerateStream_Error(t *testing.T) {
	g := New(&fakeClient{failAnalysis: true})

	var events []Event
	for event := range g.GenerateStream(context.Background(), Params{CompanyName: "Acme"}) {
		events = append(events, event)
	}

	last := events[len(events)-1]
	if last.Type != EventError || last.Error == "" {
		t.Fatalf("expected terminal error event, got %+v", last)
	}
	for _, e := range events[:len(events)-1] {
		if e.Type == EventError {
			t.Fatalf("multiple error events: %v", events)
		}
	}
}

func TestGenerator_Demo(t *testing.T) {
	client := &fakeClient{}
	g := New(client)

	result, err := g.Demo(context.Background(), Params{CompanyName: "Acme", Industry: "x", Offer: "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email.Approach != entity.ApproachProblemAware {
		t.Fatalf("expected problem_aware email, got %q", result.Email.Approach)
	}
	if len(result.Analysis.StrategicBrief.PainPoints) != 1 {
		t.Fatalf("unexpected analysis: %+v", result.Analysis)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
}

func TestGenerator_Observe(t *testing.T) {
	g := New(&fakeClient{})

	var mu sync.Mutex
	seen := map[string]bool{}
	g.Observe = func(stage string, _ time.Duration) {
		mu.Lock()
		seen[stage] = true
		mu.Unlock()
	}

	if _, err := g.Generate(context.Background(), Params{CompanyName: "Acme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, stage := range []string{"analysis", "emails", "finalize"} {
		if !seen[stage] {
			t.Fatalf("stage %q not observed: %v", stage, seen)
		}
	}
}

func TestAnalysisContext_RawFallback(t *testing.T) {
	raw := "free text analysis the model produced"
	got := analysisContext(entity.Analysis{RawAnalysis: raw})
	if got != raw {
		t.Fatalf("expected raw passthrough, got %q", got)
	}

	a := entity.Analysis{
		StrategicBrief: entity.StrategicBrief{PainPoints: []entity.PainPoint{{PainPoint: "x"}}},
		RawAnalysis:    raw,
	}
	got = analysisContext(a)
	if !strings.Contains(got, `"pain_point":"x"`) {
		t.Fatalf("expected serialized brief, got %q", got)
	}
}
