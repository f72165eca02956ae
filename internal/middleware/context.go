package middleware

// Context keys used to store request metadata. Operator keys are set by the
// JWT middleware on the admin surface; the license key by License().
const (
	ContextKeyOperatorEmail = "operator_email"
	ContextKeyOperatorRole  = "operator_role"
	ContextKeyRequestID     = "request_id"
	ContextKeyLicenseKey    = "license_key"
)
