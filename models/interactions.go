package models

// SwipeRequest is the body of POST /api/discovery/swipe
type SwipeRequest struct {
	ToUserID    string `json:"to_user_id"`
	Direction   string `json:"direction"` // left, right
	IsSuperLike bool   `json:"is_super_like"`
}

// InteractionType maps the swipe onto the stored interaction type.
func (r SwipeRequest) InteractionType() string {
	switch {
	case r.Direction == DirectionLeft:
		return InteractionTypePass
	case r.IsSuperLike:
		return InteractionTypeSuperLike
	default:
		return InteractionTypeLike
	}
}

// SwipeResponse carries the match created by a mutual like, if any.
type SwipeResponse struct {
	Match *Match `json:"match,omitempty"`
}

// UndoResponse is the body returned by POST /api/discovery/undo
type UndoResponse struct {
	Undone bool `json:"undone"`
}

// SeenRequest is the body of POST /api/discovery/seen
type SeenRequest struct {
	UserID string `json:"user_id"`
}

// LocationUpdate is the body of POST /api/profile/location
type LocationUpdate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}
