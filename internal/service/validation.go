package service

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/blazestudiox/coldforge/api/internal/dto"
	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/llm"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const (
	minOfferLength     = 20
	defaultStyle       = "professional"
	defaultPhoneRegion = "US"
	dnsLookupTimeout   = 3 * time.Second
)

var validStyles = map[string]bool{
	"professional": true,
	"casual":       true,
	"bold":         true,
}

// ValidateGenerateRequest normalizes a generation request in place and
// returns a ValidationError on the first malformed field. Style and
// provider default rather than fail when absent.
func ValidateGenerateRequest(req *dto.GenerateRequest) error {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Industry = strings.TrimSpace(req.Industry)
	req.Offer = strings.TrimSpace(req.Offer)
	req.Style = strings.ToLower(strings.TrimSpace(req.Style))
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))

	if req.CompanyName == "" {
		return &ValidationError{Message: "company_name is required"}
	}
	if req.Industry == "" {
		return &ValidationError{Message: "industry is required"}
	}
	if len(req.Offer) < minOfferLength {
		return &ValidationError{Message: fmt.Sprintf("offer must be at least %d characters", minOfferLength)}
	}

	if req.Style == "" {
		req.Style = defaultStyle
	} else if !validStyles[req.Style] {
		return &ValidationError{Message: "style must be one of professional, casual, bold"}
	}

	if req.Provider == "" {
		req.Provider = string(llm.ProviderAnthropic)
	} else if !llm.Provider(req.Provider).Valid() {
		return &ValidationError{Message: "provider must be anthropic or openai"}
	}

	return nil
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// ContactValidator checks the optional sender signature block: the email
// must be syntactically valid with a resolvable mail domain, the phone (if
// given) must normalize to E.164.
type ContactValidator struct {
	DefaultRegion string
	dnsResolver   DNSResolver
}

// ContactValidatorOption configures optional dependencies.
type ContactValidatorOption func(*ContactValidator)

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) ContactValidatorOption {
	return func(v *ContactValidator) {
		v.dnsResolver = resolver
	}
}

// NewContactValidator builds a validator with sensible defaults.
func NewContactValidator(defaultRegion string, opts ...ContactValidatorOption) *ContactValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	v := &ContactValidator{
		DefaultRegion: region,
		dnsResolver:   systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateSender normalizes a sender block. A nil block is valid and
// returns nil; a present block needs a name and a deliverable email.
func (v *ContactValidator) ValidateSender(ctx context.Context, block *dto.SenderBlock) (*entity.Sender, error) {
	if block == nil {
		return nil, nil
	}

	name := strings.TrimSpace(block.Name)
	if name == "" {
		return nil, &ValidationError{Message: "sender name is required"}
	}

	email, err := v.validateEmail(ctx, block.Email)
	if err != nil {
		return nil, err
	}

	sender := &entity.Sender{Name: name, Email: email}

	if phone := strings.TrimSpace(block.Phone); phone != "" {
		normalized := normalizePhone(phone, v.DefaultRegion)
		if normalized == "" {
			return nil, &ValidationError{Message: "sender phone is not a valid number"}
		}
		sender.Phone = normalized
	}

	return sender, nil
}

func (v *ContactValidator) validateEmail(ctx context.Context, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", &ValidationError{Message: "sender email is not a valid address"}
	}

	domain := email[strings.Index(email, "@")+1:]
	if !isDomainValid(domain) {
		return "", &ValidationError{Message: "sender email domain is malformed"}
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", &ValidationError{Message: "sender email domain is malformed"}
	}

	if !v.hasMXRecord(ctx, asciiDomain) {
		return "", &ValidationError{Message: "sender email domain does not accept mail"}
	}

	return email, nil
}

func (v *ContactValidator) hasMXRecord(ctx context.Context, domain string) bool {
	if v.dnsResolver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, dnsLookupTimeout)
	defer cancel()
	records, err := v.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func normalizePhone(raw, region string) string {
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
