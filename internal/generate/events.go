package generate

import "github.com/blazestudiox/coldforge/api/internal/entity"

// EventType labels a streaming progress event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventAnalysis        EventType = "analysis"
	EventEmail           EventType = "email"
	EventFollowUps       EventType = "followups"
	EventRecommendations EventType = "recommendations"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Event is one unit of streamed pipeline progress. Exactly one payload
// field is set per event type.
type Event struct {
	Type            EventType               `json:"type"`
	Stage           string                  `json:"stage,omitempty"`
	Analysis        *entity.Analysis        `json:"analysis,omitempty"`
	Approach        string                  `json:"approach,omitempty"`
	Email           *entity.EmailVariant    `json:"email,omitempty"`
	FollowUps       []entity.FollowUp       `json:"followups,omitempty"`
	Recommendations *entity.Recommendations `json:"recommendations,omitempty"`
	Campaign        *entity.Campaign        `json:"campaign,omitempty"`
	Error           string                  `json:"error,omitempty"`
}
