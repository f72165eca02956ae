package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/blazestudiox/coldforge/api/internal/dto"
	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/generate"
	"github.com/blazestudiox/coldforge/api/internal/license"
	"github.com/blazestudiox/coldforge/api/internal/llm"
	"github.com/blazestudiox/coldforge/api/internal/repository"
)

// ClientFactory builds a model client for a provider and key. Injected so
// callers can decorate clients (metrics, fakes in tests).
type ClientFactory func(provider llm.Provider, apiKey string) (llm.Client, error)

// GenerationService runs the license, tier, and quota gates in front of
// the campaign pipeline.
type GenerationService struct {
	verifier  license.Verifier
	tiers     *TierService
	usage     repository.UsageRepository
	demos     repository.DemoLimitsRepository
	validator *ContactValidator

	anthropicKey string
	openaiKey    string
	llmTimeout   time.Duration

	newClient ClientFactory

	// ObserveStage, when set, is forwarded to the pipeline for per-stage
	// duration metrics.
	ObserveStage func(stage string, d time.Duration)
}

// GenerationConfig carries the provider credentials and timeout.
type GenerationConfig struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	LLMTimeout      time.Duration
}

// NewGenerationService wires the service. A nil factory falls back to the
// plain provider clients.
func NewGenerationService(
	verifier license.Verifier,
	tiers *TierService,
	usage repository.UsageRepository,
	demos repository.DemoLimitsRepository,
	validator *ContactValidator,
	cfg GenerationConfig,
	factory ClientFactory,
) *GenerationService {
	if factory == nil {
		factory = func(provider llm.Provider, apiKey string) (llm.Client, error) {
			return llm.New(provider, llm.ClientConfig{APIKey: apiKey, Timeout: cfg.LLMTimeout})
		}
	}
	return &GenerationService{
		verifier:     verifier,
		tiers:        tiers,
		usage:        usage,
		demos:        demos,
		validator:    validator,
		anthropicKey: cfg.AnthropicAPIKey,
		openaiKey:    cfg.OpenAIAPIKey,
		llmTimeout:   cfg.LLMTimeout,
		newClient:    factory,
	}
}

// clientFor picks the credential: the caller's own key when supplied,
// otherwise the server key for the provider. usedServerKey tells the
// caller whether this run counts against the free quota.
func (s *GenerationService) clientFor(provider llm.Provider, userKey string) (client llm.Client, usedServerKey bool, err error) {
	apiKey := userKey
	if apiKey == "" {
		usedServerKey = true
		switch provider {
		case llm.ProviderAnthropic:
			apiKey = s.anthropicKey
		case llm.ProviderOpenAI:
			apiKey = s.openaiKey
		}
	}
	if apiKey == "" {
		return nil, false, &ValidationError{Message: fmt.Sprintf("no %s key available: supply ai_key or choose another provider", provider)}
	}

	client, err = s.newClient(provider, apiKey)
	if err != nil {
		return nil, false, err
	}
	return client, usedServerKey, nil
}

// authorize runs the license, tier, and usage gates in order. No model
// call is issued until every gate passes.
func (s *GenerationService) authorize(ctx context.Context, licenseKey string, usesServerKey bool) error {
	verification := s.verifier.Verify(ctx, licenseKey)
	if !verification.Valid {
		return &AuthError{Message: verification.Message}
	}

	if err := s.tiers.Register(ctx, licenseKey, verification.ProductID); err != nil {
		// Registration failure must not block a verified customer.
		log.Printf("level=warn msg=\"tier registration failed\" license=%s err=%v", truncateKey(licenseKey), err)
	}

	_, uses, _, err := s.usage.Check(ctx, licenseKey)
	if err != nil {
		return err
	}

	allowed, limit, tier, err := s.tiers.CheckLimits(ctx, licenseKey, uses)
	if err != nil {
		return err
	}
	if tier == TierExpired {
		return &AuthError{Message: "Your subscription has expired. Please renew or upgrade."}
	}
	if !allowed {
		return &QuotaError{
			Message:  fmt.Sprintf("Generation limit reached for the %s tier (%d of %d used)", tier, uses, limit),
			Uses:     uses,
			Limit:    limit,
			Upgrades: s.tiers.UpgradePath(tier),
		}
	}

	if usesServerKey {
		canUse, uses, needsOwnKey, err := s.usage.Check(ctx, licenseKey)
		if err != nil {
			return err
		}
		if !canUse && needsOwnKey {
			return &QuotaError{
				Message: fmt.Sprintf("Free generations exhausted (%d used). Supply your own provider key via ai_key to continue", uses),
				Uses:    uses,
				Limit:   limit,
			}
		}
	}

	return nil
}

// Generate runs the full gated pipeline for one request.
func (s *GenerationService) Generate(ctx context.Context, licenseKey string, req dto.GenerateRequest) (*entity.Campaign, error) {
	if err := ValidateGenerateRequest(&req); err != nil {
		return nil, err
	}

	sender, err := s.validator.ValidateSender(ctx, req.Sender)
	if err != nil {
		return nil, err
	}

	client, usedServerKey, err := s.clientFor(llm.Provider(req.Provider), req.AIKey)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, licenseKey, usedServerKey); err != nil {
		return nil, err
	}

	gen := generate.New(client)
	gen.Observe = s.ObserveStage

	campaign, err := gen.Generate(ctx, generate.Params{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Offer:       req.Offer,
		Style:       req.Style,
		CompanySize: req.CompanySize,
	})
	if err != nil {
		return nil, err
	}
	campaign.Sender = sender

	if usedServerKey {
		if err := s.usage.Increment(ctx, licenseKey); err != nil {
			log.Printf("level=warn msg=\"usage increment failed\" license=%s err=%v", truncateKey(licenseKey), err)
		}
	}

	return campaign, nil
}

// Stream runs the same gates, then returns the pipeline's event channel.
// Gate failures are returned synchronously before any event is produced.
func (s *GenerationService) Stream(ctx context.Context, licenseKey string, req dto.GenerateRequest) (<-chan generate.Event, error) {
	if err := ValidateGenerateRequest(&req); err != nil {
		return nil, err
	}

	client, usedServerKey, err := s.clientFor(llm.Provider(req.Provider), req.AIKey)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, licenseKey, usedServerKey); err != nil {
		return nil, err
	}

	gen := generate.New(client)
	gen.Observe = s.ObserveStage

	events := gen.GenerateStream(ctx, generate.Params{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Offer:       req.Offer,
		Style:       req.Style,
		CompanySize: req.CompanySize,
	})

	if usedServerKey {
		if err := s.usage.Increment(ctx, licenseKey); err != nil {
			log.Printf("level=warn msg=\"usage increment failed\" license=%s err=%v", truncateKey(licenseKey), err)
		}
	}

	return events, nil
}

// DemoOutcome is a demo run plus the caller's remaining allowance.
type DemoOutcome struct {
	Result        *generate.DemoResult
	DemosUsed     int
	DemosLeft     int
	ResetInSecond int
}

// Demo runs the reduced pipeline for an unauthenticated caller, throttled
// per IP. The server provider key is always used; demo runs never touch
// license quotas.
func (s *GenerationService) Demo(ctx context.Context, ip string, req dto.DemoRequest) (*DemoOutcome, error) {
	full := dto.GenerateRequest{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Offer:       req.Offer,
		Style:       req.Style,
	}
	if err := ValidateGenerateRequest(&full); err != nil {
		return nil, err
	}

	allowed, count, _, err := s.demos.Check(ctx, ip)
	if err != nil {
		return nil, err
	}
	if !allowed {
		reset, err := s.demos.SecondsUntilReset(ctx, ip)
		if err != nil {
			return nil, err
		}
		return nil, &QuotaError{
			Message: fmt.Sprintf("Demo limit reached. Try again in %d seconds or purchase a license", reset),
			Uses:    count,
		}
	}

	client, _, err := s.clientFor(llm.Provider(full.Provider), "")
	if err != nil {
		return nil, err
	}

	gen := generate.New(client)
	gen.Observe = s.ObserveStage

	result, err := gen.Demo(ctx, generate.Params{
		CompanyName: full.CompanyName,
		Industry:    full.Industry,
		Offer:       full.Offer,
		Style:       full.Style,
	})
	if err != nil {
		return nil, err
	}

	if err := s.demos.Record(ctx, ip); err != nil {
		log.Printf("level=warn msg=\"demo record failed\" ip=%s err=%v", ip, err)
	}

	_, count, remaining, err := s.demos.Check(ctx, ip)
	if err != nil {
		return nil, err
	}
	reset, err := s.demos.SecondsUntilReset(ctx, ip)
	if err != nil {
		return nil, err
	}

	return &DemoOutcome{Result: result, DemosUsed: count, DemosLeft: remaining, ResetInSecond: reset}, nil
}

// UsageStats reports server-key consumption after verifying the license.
func (s *GenerationService) UsageStats(ctx context.Context, licenseKey string) (entity.UsageStats, error) {
	verification := s.verifier.Verify(ctx, licenseKey)
	if !verification.Valid {
		return entity.UsageStats{}, &AuthError{Message: verification.Message}
	}
	return s.usage.Stats(ctx, licenseKey)
}

// TierInfo reports the caller's plan after verifying the license.
func (s *GenerationService) TierInfo(ctx context.Context, licenseKey string) (TierInfo, error) {
	verification := s.verifier.Verify(ctx, licenseKey)
	if !verification.Valid {
		return TierInfo{}, &AuthError{Message: verification.Message}
	}
	return s.tiers.Info(ctx, licenseKey)
}

// truncateKey shortens a license key for log lines so credentials never
// land in logs verbatim.
func truncateKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
