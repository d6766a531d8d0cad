package models

// Candidate is a profile offered to the viewer in the discovery deck.
// Candidates are immutable once fetched.
type Candidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	BirthDate  string   `json:"birth_date,omitempty"`
	City       string   `json:"city,omitempty"`
	Country    string   `json:"country,omitempty"`
	Education  string   `json:"education,omitempty"`
	Profession string   `json:"profession,omitempty"`
	Photos     []string `json:"photos,omitempty"`
	SuperLiker bool     `json:"super_liker"` // candidate already super-liked the viewer
	Role       string   `json:"role"`
	MotherFor  string   `json:"mother_for,omitempty"`
}

// IsGuardian reports whether the profile is run by a guardian on behalf of a ward.
func (c Candidate) IsGuardian() bool {
	return c.Role == RoleGuardian
}

// DiscoveryResponse is the body of GET /api/discovery
type DiscoveryResponse struct {
	Profiles []Candidate `json:"profiles"`
}
