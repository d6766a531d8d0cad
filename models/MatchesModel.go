package models

// Match is created when two users like each other.
type Match struct {
	MatchID   string     `dynamodbav:"matchId" json:"id"`          // Unique matchId
	Users     []string   `dynamodbav:"users" json:"users"`         // Both user ids
	CreatedAt string     `dynamodbav:"createdAt" json:"createdAt"` // Timestamp of creation
	Peer      *Candidate `dynamodbav:"-" json:"peer,omitempty"`    // The other user, filled per viewer
}

// HasUser reports whether userID takes part in the match.
func (m Match) HasUser(userID string) bool {
	for _, u := range m.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// OtherUser returns the id of the participant that is not userID.
func (m Match) OtherUser(userID string) (string, bool) {
	for _, u := range m.Users {
		if u != userID {
			return u, true
		}
	}
	return "", false
}
