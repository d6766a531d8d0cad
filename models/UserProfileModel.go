package models

// UserProfile is the stored profile, including the attributes only the server filters on.
type UserProfile struct {
	UserID     string   `dynamodbav:"userId" json:"id"` // Partition Key
	Name       string   `dynamodbav:"name" json:"name"`
	BirthDate  string   `dynamodbav:"birthDate,omitempty" json:"birth_date,omitempty"` // YYYY-MM-DD
	Gender     string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	City       string   `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Country    string   `dynamodbav:"country,omitempty" json:"country,omitempty"`
	Education  string   `dynamodbav:"education,omitempty" json:"education,omitempty"`
	Profession string   `dynamodbav:"profession,omitempty" json:"profession,omitempty"`
	Photos     []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"` // S3 keys or absolute URLs
	Role       string   `dynamodbav:"role,omitempty" json:"role,omitempty"`
	MotherFor  string   `dynamodbav:"motherFor,omitempty" json:"mother_for,omitempty"`

	Religiosity       string  `dynamodbav:"religiosity,omitempty" json:"religiosity,omitempty"`
	Sect              string  `dynamodbav:"sect,omitempty" json:"sect,omitempty"`
	MaritalStatus     string  `dynamodbav:"maritalStatus,omitempty" json:"marital_status,omitempty"`
	Smoking           string  `dynamodbav:"smoking,omitempty" json:"smoking,omitempty"`
	WantsChildren     string  `dynamodbav:"wantsChildren,omitempty" json:"wants_children,omitempty"`
	WillingToRelocate string  `dynamodbav:"willingToRelocate,omitempty" json:"willing_to_relocate,omitempty"`
	Origin            string  `dynamodbav:"origin,omitempty" json:"origin,omitempty"`
	Latitude          float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	Hidden            bool    `dynamodbav:"hidden,omitempty" json:"hidden,omitempty"` // paused or banned profiles never enter discovery
}

// Candidate projects the profile into the shape the discovery deck receives.
func (p UserProfile) Candidate() Candidate {
	role := p.Role
	if role == "" {
		role = RoleSelf
	}
	photos := make([]string, len(p.Photos))
	copy(photos, p.Photos)
	return Candidate{
		ID:         p.UserID,
		Name:       p.Name,
		BirthDate:  p.BirthDate,
		City:       p.City,
		Country:    p.Country,
		Education:  p.Education,
		Profession: p.Profession,
		Photos:     photos,
		Role:       role,
		MotherFor:  p.MotherFor,
	}
}
