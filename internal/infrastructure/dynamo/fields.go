package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmailVerified = "email_verified"
	fieldPasswordHash  = "password_hash"
	fieldLastLogin     = "last_login"
	fieldUpdatedAt     = "updated_at"

	attrAttempts = "attempts"
	attrUsed     = "used"
	attrCode     = "code"
	attrExpires  = "expires_at"
)
