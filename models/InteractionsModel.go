package models

// Interaction is one user's decision about another.
type Interaction struct {
	PK              string  `dynamodbav:"PK" json:"-"`                                // Partition Key: "USER#sender"
	SK              string  `dynamodbav:"SK" json:"-"`                                // Sort Key: "INTERACTION#receiver"
	SenderID        string  `dynamodbav:"senderId" json:"senderId"`                   // Who swiped
	ReceiverID      string  `dynamodbav:"receiverId" json:"receiverId"`               // Who was swiped on
	InteractionType string  `dynamodbav:"interactionType" json:"interactionType"`     // like, pass, super_like
	Status          string  `dynamodbav:"status" json:"status"`                       // pending, match, declined
	MatchID         *string `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"` // Assigned when matched
	CreatedAt       string  `dynamodbav:"createdAt" json:"createdAt"`
	LastUpdated     string  `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// IsPositive reports whether the interaction expresses interest.
func (i Interaction) IsPositive() bool {
	return i.InteractionType == InteractionTypeLike || i.InteractionType == InteractionTypeSuperLike
}

// LastSwipe remembers a user's most recent swipe so it can be undone once.
type LastSwipe struct {
	PK         string       `dynamodbav:"PK" json:"-"` // "USER#sender"
	SK         string       `dynamodbav:"SK" json:"-"` // LastSwipeKey
	SenderID   string       `dynamodbav:"senderId" json:"senderId"`
	ReceiverID string       `dynamodbav:"receiverId" json:"receiverId"`
	MatchID    *string      `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	Previous   *Interaction `dynamodbav:"previous,omitempty" json:"-"` // replaced interaction for the pair, restored on undo
	CreatedAt  string       `dynamodbav:"createdAt" json:"createdAt"`
}

// SeenEntry records that a candidate was shown to a user.
type SeenEntry struct {
	PK     string `dynamodbav:"PK"` // "USER#viewer"
	SK     string `dynamodbav:"SK"` // "SEEN#candidate"
	SeenID string `dynamodbav:"seenId"`
	SeenAt string `dynamodbav:"seenAt"`
}
