package service

// ValidationError reports a malformed request field. Surfaced to the
// caller before any generation work starts.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError reports an invalid, expired, or revoked license.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// QuotaError reports an exhausted generation quota, carrying the usage
// numbers and, when available, the upgrade options.
type QuotaError struct {
	Message  string
	Uses     int
	Limit    int
	Upgrades []TierUpgrade
}

func (e *QuotaError) Error() string { return e.Message }
