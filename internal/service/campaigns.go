package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/repository"
)

// CampaignService wraps the campaign store with tier-based save limits.
type CampaignService struct {
	campaigns repository.CampaignsRepository
	tiers     *TierService
}

// NewCampaignService constructs the service.
func NewCampaignService(campaigns repository.CampaignsRepository, tiers *TierService) *CampaignService {
	return &CampaignService{campaigns: campaigns, tiers: tiers}
}

// Save persists a campaign for the license key, enforcing the tier's
// saved-campaign cap.
func (s *CampaignService) Save(ctx context.Context, licenseKey string, campaign *entity.Campaign) (uuid.UUID, error) {
	if campaign == nil {
		return uuid.Nil, &ValidationError{Message: "campaign payload is required"}
	}
	if campaign.Company.Name == "" {
		return uuid.Nil, &ValidationError{Message: "campaign company name is required"}
	}

	saveLimit, err := s.tiers.SaveLimit(ctx, licenseKey)
	if err != nil {
		return uuid.Nil, err
	}
	if saveLimit != Unlimited {
		count, err := s.campaigns.Count(ctx, licenseKey)
		if err != nil {
			return uuid.Nil, err
		}
		if count >= saveLimit {
			tier, _ := s.tiers.Tier(ctx, licenseKey)
			return uuid.Nil, &QuotaError{
				Message:  fmt.Sprintf("Saved campaign limit reached (%d of %d)", count, saveLimit),
				Uses:     count,
				Limit:    saveLimit,
				Upgrades: s.tiers.UpgradePath(tier),
			}
		}
	}

	return s.campaigns.Save(ctx, licenseKey, campaign)
}

// Get fetches one owned campaign.
func (s *CampaignService) Get(ctx context.Context, licenseKey string, id uuid.UUID) (*entity.CampaignRecord, error) {
	return s.campaigns.Get(ctx, licenseKey, id)
}

// List returns campaign summaries for the owner.
func (s *CampaignService) List(ctx context.Context, licenseKey string, limit, offset int) ([]entity.CampaignSummary, error) {
	return s.campaigns.List(ctx, licenseKey, limit, offset)
}

// Delete removes one owned campaign, reporting whether it existed.
func (s *CampaignService) Delete(ctx context.Context, licenseKey string, id uuid.UUID) (bool, error) {
	return s.campaigns.Delete(ctx, licenseKey, id)
}
