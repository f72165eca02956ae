package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/license"
	"github.com/blazestudiox/coldforge/api/internal/repository"
)

// TierExpired is the pseudo-tier reported for lapsed subscriptions.
const TierExpired = "expired"

// Unlimited marks a quota with no cap.
const Unlimited = -1

// TierConfig describes one plan: its generation quota, validity window,
// saved-campaign cap, and feature set. -1 means unlimited (or lifetime for
// DaysValid).
type TierConfig struct {
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Limit     int      `json:"generation_limit"`
	DaysValid int      `json:"days_valid"`
	SaveLimit int      `json:"campaign_save_limit"`
	Features  []string `json:"features"`
}

// tierOrder lists plans cheapest first; upgrades walk forward from the
// current position.
var tierOrder = []string{"starter", "professional", "unlimited", "agency"}

var tierCatalogue = map[string]TierConfig{
	"starter": {
		Name:      "Starter",
		Price:     29,
		Limit:     10,
		DaysValid: 7,
		SaveLimit: 3,
		Features:  []string{"basic_export"},
	},
	"professional": {
		Name:      "Professional",
		Price:     49,
		Limit:     50,
		DaysValid: 30,
		SaveLimit: 10,
		Features:  []string{"basic_export", "campaign_history"},
	},
	"unlimited": {
		Name:      "Unlimited",
		Price:     99,
		Limit:     Unlimited,
		DaysValid: 90,
		SaveLimit: Unlimited,
		Features:  []string{"basic_export", "campaign_history", "priority_support", "early_access"},
	},
	"agency": {
		Name:      "Agency",
		Price:     199,
		Limit:     Unlimited,
		DaysValid: Unlimited,
		SaveLimit: Unlimited,
		Features:  []string{"basic_export", "campaign_history", "priority_support", "early_access", "white_label", "api_access"},
	},
}

// TierUpgrade is one purchasable step up from the current plan.
type TierUpgrade struct {
	Tier      string   `json:"tier"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Limit     int      `json:"generation_limit"`
	SaveLimit int      `json:"campaign_save_limit"`
	Features  []string `json:"features"`
}

// TierInfo is the caller-facing plan snapshot.
type TierInfo struct {
	Tier        string     `json:"tier"`
	Name        string     `json:"name"`
	Price       int        `json:"price,omitempty"`
	Limit       int        `json:"generation_limit,omitempty"`
	DaysValid   int        `json:"days_valid,omitempty"`
	SaveLimit   int        `json:"campaign_save_limit,omitempty"`
	Features    []string   `json:"features,omitempty"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsExpired   bool       `json:"is_expired"`
	IsLifetime  bool       `json:"is_lifetime,omitempty"`
	IsUnlimited bool       `json:"is_unlimited,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// TierService resolves licenses to plans and enforces plan quotas. Keys
// with no registration are treated as legacy professional purchases.
type TierService struct {
	tiers    repository.TiersRepository
	products []license.Product
}

// NewTierService builds the service over the registrations store. products
// maps Gumroad product IDs onto tier names.
func NewTierService(tiers repository.TiersRepository, products []license.Product) *TierService {
	return &TierService{tiers: tiers, products: products}
}

func (s *TierService) tierFromProductID(productID string) string {
	for _, product := range s.products {
		if product.ID == productID {
			return product.Tier
		}
	}
	return "professional"
}

// Register records the license-to-tier binding after a successful license
// verification. The expiry is derived from the tier's validity window.
func (s *TierService) Register(ctx context.Context, licenseKey, productID string) error {
	tier := s.tierFromProductID(productID)
	cfg := tierCatalogue[tier]

	now := time.Now().UTC()
	record := entity.TierRecord{
		LicenseKey:  licenseKey,
		Tier:        tier,
		ProductID:   productID,
		PurchasedAt: now,
	}
	if cfg.DaysValid != Unlimited {
		expires := now.AddDate(0, 0, cfg.DaysValid)
		record.ExpiresAt = &expires
	}

	if err := s.tiers.Register(ctx, record); err != nil {
		return fmt.Errorf("register license tier: %w", err)
	}
	return nil
}

// Tier resolves the active tier name for a license key. Unregistered keys
// default to professional; registered keys past expiry report expired.
func (s *TierService) Tier(ctx context.Context, licenseKey string) (string, error) {
	record, err := s.tiers.Find(ctx, licenseKey)
	if err != nil {
		if errors.Is(err, repository.ErrTierNotFound) {
			return "professional", nil
		}
		return "", err
	}

	if record.ExpiresAt != nil && time.Now().After(*record.ExpiresAt) {
		return TierExpired, nil
	}
	return record.Tier, nil
}

// Config returns the catalogue entry for a tier, defaulting to
// professional for unknown names.
func (s *TierService) Config(tier string) TierConfig {
	if cfg, ok := tierCatalogue[tier]; ok {
		return cfg
	}
	return tierCatalogue["professional"]
}

// CheckLimits reports whether the key may generate given its current
// usage count.
func (s *TierService) CheckLimits(ctx context.Context, licenseKey string, currentUsage int) (allowed bool, limit int, tier string, err error) {
	tier, err = s.Tier(ctx, licenseKey)
	if err != nil {
		return false, 0, "", err
	}
	if tier == TierExpired {
		return false, 0, TierExpired, nil
	}

	cfg := s.Config(tier)
	if cfg.Limit == Unlimited {
		return true, Unlimited, tier, nil
	}
	return currentUsage < cfg.Limit, cfg.Limit, tier, nil
}

// HasFeature reports whether the key's tier includes a named feature.
func (s *TierService) HasFeature(ctx context.Context, licenseKey, feature string) (bool, error) {
	tier, err := s.Tier(ctx, licenseKey)
	if err != nil {
		return false, err
	}
	if tier == TierExpired {
		return false, nil
	}
	for _, f := range s.Config(tier).Features {
		if f == feature {
			return true, nil
		}
	}
	return false, nil
}

// SaveLimit returns the saved-campaign cap for the key's tier.
func (s *TierService) SaveLimit(ctx context.Context, licenseKey string) (int, error) {
	tier, err := s.Tier(ctx, licenseKey)
	if err != nil {
		return 0, err
	}
	return s.Config(tier).SaveLimit, nil
}

// Info assembles the full caller-facing plan snapshot.
func (s *TierService) Info(ctx context.Context, licenseKey string) (TierInfo, error) {
	tier, err := s.Tier(ctx, licenseKey)
	if err != nil {
		return TierInfo{}, err
	}

	if tier == TierExpired {
		return TierInfo{
			Tier:      TierExpired,
			Name:      "Expired",
			IsExpired: true,
			Message:   "Your subscription has expired. Please renew or upgrade.",
		}, nil
	}

	cfg := s.Config(tier)
	info := TierInfo{
		Tier:        tier,
		Name:        cfg.Name,
		Price:       cfg.Price,
		Limit:       cfg.Limit,
		DaysValid:   cfg.DaysValid,
		SaveLimit:   cfg.SaveLimit,
		Features:    cfg.Features,
		IsLifetime:  cfg.DaysValid == Unlimited,
		IsUnlimited: cfg.Limit == Unlimited,
	}

	record, err := s.tiers.Find(ctx, licenseKey)
	if err == nil {
		purchased := record.PurchasedAt
		info.PurchasedAt = &purchased
		info.ExpiresAt = record.ExpiresAt
	} else if !errors.Is(err, repository.ErrTierNotFound) {
		return TierInfo{}, err
	}

	return info, nil
}

// UpgradePath lists the tiers above the given one, cheapest first.
func (s *TierService) UpgradePath(currentTier string) []TierUpgrade {
	start := -1
	for i, tier := range tierOrder {
		if tier == currentTier {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var upgrades []TierUpgrade
	for _, tier := range tierOrder[start+1:] {
		cfg := tierCatalogue[tier]
		upgrades = append(upgrades, TierUpgrade{
			Tier:      tier,
			Name:      cfg.Name,
			Price:     cfg.Price,
			Limit:     cfg.Limit,
			SaveLimit: cfg.SaveLimit,
			Features:  cfg.Features,
		})
	}
	return upgrades
}
