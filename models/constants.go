package models

// Swipe directions accepted by the discovery swipe endpoint
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Interaction types recorded for a swipe
const (
	InteractionTypeLike      = "like"
	InteractionTypePass      = "pass"
	InteractionTypeSuperLike = "super_like"
)

// Interaction statuses
const (
	StatusPending  = "pending"
	StatusMatch    = "match"
	StatusDeclined = "declined"
)

// Candidate roles
const (
	RoleSelf     = "self"     // profile owner represents themselves
	RoleGuardian = "guardian" // profile owner represents a ward (see MotherFor)
)

// DynamoDB table names
const (
	UserProfilesTable = "Profiles"
	InteractionsTable = "Interactions"
	MatchesTable      = "Matches"
	PreferencesTable  = "Preferences"

	// ReceiverIndex is the global secondary index of InteractionsTable keyed by receiverId
	ReceiverIndex = "receiverId-index"
)

// Sort key prefixes and fixed sort keys inside InteractionsTable
const (
	UserKeyPrefix        = "USER#"
	InteractionKeyPrefix = "INTERACTION#"
	SeenKeyPrefix        = "SEEN#"
	LastSwipeKey         = "LAST_SWIPE"
)
