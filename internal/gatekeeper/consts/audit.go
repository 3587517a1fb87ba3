package consts

// Audit actions
const (
	AuditForceUnverify = "force_unverify"
	AuditManualVerify  = "manual_verify"
	AuditAutoVerify    = "toggle_autoverify"
)

// DefaultReason is recorded when an override carries no reason.
const DefaultReason = "No reason provided"

// MemberNotFoundRemediation is shown to an admin whose target has left the space.
const MemberNotFoundRemediation = "Member not found. Manual role removal required: remove any roles with -v and unverified, then add verified."
