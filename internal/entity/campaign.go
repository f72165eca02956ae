package entity

import (
	"time"

	"github.com/google/uuid"
)

// Approach tags for the five cold-email angles. The order is the canonical
// enumeration order used by the generation pipeline and streaming events.
const (
	ApproachProblemAware = "problem_aware"
	ApproachAuthority    = "authority"
	ApproachCuriosity    = "curiosity"
	ApproachSocialProof  = "social_proof"
	ApproachDirectValue  = "direct_value"
)

// Approaches lists every approach tag in canonical order.
var Approaches = []string{
	ApproachProblemAware,
	ApproachAuthority,
	ApproachCuriosity,
	ApproachSocialProof,
	ApproachDirectValue,
}

// PainPoint is one entry of the strategic brief's pain-point list.
type PainPoint struct {
	PainPoint   string `json:"pain_point"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	HiddenCost  string `json:"hidden_cost"`
}

// Objection captures a predicted buyer objection and its rebuttal.
type Objection struct {
	Objection         string `json:"objection"`
	UnderlyingConcern string `json:"underlying_concern"`
	ReframeStrategy   string `json:"reframe_strategy"`
	ProofPoint        string `json:"proof_point"`
}

// ValueProposition is an outcome-focused benefit statement.
type ValueProposition struct {
	ValueProp        string `json:"value_prop"`
	WhyItWorks       string `json:"why_it_works"`
	EmotionalTrigger string `json:"emotional_trigger"`
	CompetitiveAngle string `json:"competitive_angle"`
}

// ApproachStrategy names the primary and backup persuasion angles.
type ApproachStrategy struct {
	Primary   string `json:"primary"`
	Rationale string `json:"rationale"`
	Secondary string `json:"secondary"`
}

// Hook is an opening line with its psychological mechanic.
type Hook struct {
	Hook       string `json:"hook"`
	Type       string `json:"type"`
	WhyItWorks string `json:"why_it_works"`
}

// StrategicBrief is the structured half of the stage-1 analysis. Every list
// is present (possibly empty); absence of a field never produces nil slices.
type StrategicBrief struct {
	PainPoints        []PainPoint        `json:"top_3_pain_points"`
	Objections        []Objection        `json:"key_objections"`
	ValuePropositions []ValueProposition `json:"resonant_value_propositions"`
	ApproachStrategy  ApproachStrategy   `json:"approach_strategy"`
	Hooks             []Hook             `json:"hooks_and_pattern_interrupts"`
}

// Analysis pairs the structured brief with the raw model text it was parsed
// from. RawAnalysis is kept for diagnostics even when parsing succeeded.
type Analysis struct {
	StrategicBrief StrategicBrief `json:"strategic_brief"`
	RawAnalysis    string         `json:"raw_analysis"`
}

// EmailVariant is one generated cold email for a single approach.
type EmailVariant struct {
	Approach        string   `json:"approach"`
	Subject         string   `json:"subject"`
	SubjectVariants []string `json:"subject_variants"`
	Body            string   `json:"email"`
	RawText         string   `json:"full_text"`
}

// FollowUp is one entry of the three-email follow-up sequence.
type FollowUp struct {
	Day     int    `json:"day"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Recommendations wraps the free-text campaign optimization plan.
type Recommendations struct {
	StrategicRecommendations string `json:"strategic_recommendations"`
}

// Company identifies the prospect the campaign targets.
type Company struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
}

// Sender is an optional signature block rendered into document exports.
type Sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Campaign is the aggregate produced by one generation run. It is immutable
// after assembly; ColdEmails always carries exactly the five approach keys
// and FollowUpSequence always has length three.
type Campaign struct {
	Company          Company                 `json:"company"`
	Analysis         Analysis                `json:"analysis"`
	ColdEmails       map[string]EmailVariant `json:"cold_emails"`
	FollowUpSequence []FollowUp              `json:"followup_sequence"`
	Recommendations  Recommendations         `json:"recommendations"`
	Style            string                  `json:"style"`
	Sender           *Sender                 `json:"sender,omitempty"`
}

// CampaignRecord is a persisted campaign with its storage metadata.
type CampaignRecord struct {
	ID          uuid.UUID `json:"id"`
	LicenseKey  string    `json:"-"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	Campaign    Campaign  `json:"campaign"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CampaignSummary is the listing projection: company info without the blob.
type CampaignSummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UsageStats reports server-key consumption for a license.
type UsageStats struct {
	Uses        int        `json:"uses"`
	Limit       int        `json:"limit"`
	Remaining   int        `json:"remaining"`
	NeedsOwnKey bool       `json:"needs_own_key"`
	FirstUsed   *time.Time `json:"first_used,omitempty"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
}

// TierRecord is a persisted license-to-tier registration.
type TierRecord struct {
	LicenseKey  string
	Tier        string
	ProductID   string
	PurchasedAt time.Time
	ExpiresAt   *time.Time
}
