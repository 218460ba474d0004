package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyOrgID     = "org_id"
	ContextKeyOrgEmail  = "org_email"
	ContextKeyOrgRole   = "org_role"
	ContextKeyRequestID = "request_id"
)
