package dto

// SenderBlock is the optional signature attached to generated campaigns.
type SenderBlock struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// GenerateRequest is the payload for full campaign generation.
type GenerateRequest struct {
	CompanyName string       `json:"company_name"`
	Industry    string       `json:"industry"`
	Offer       string       `json:"offer"`
	Style       string       `json:"style,omitempty"`
	CompanySize string       `json:"company_size,omitempty"`
	Provider    string       `json:"provider,omitempty"`
	AIKey       string       `json:"ai_key,omitempty"`
	Sender      *SenderBlock `json:"sender,omitempty"`
}

// DemoRequest is the payload for the unauthenticated demo endpoint.
type DemoRequest struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Offer       string `json:"offer"`
	Style       string `json:"style,omitempty"`
}
