package models

// Preferences are the viewer's discovery filters. Empty string fields and zero
// numeric fields mean "no constraint".
type Preferences struct {
	UserID            string `dynamodbav:"userId" json:"-"` // Partition Key
	AgeMin            int    `dynamodbav:"ageMin,omitempty" json:"age_min,omitempty"`
	AgeMax            int    `dynamodbav:"ageMax,omitempty" json:"age_max,omitempty"`
	MaxDistanceKm     int    `dynamodbav:"maxDistanceKm,omitempty" json:"max_distance_km,omitempty"`
	Religiosity       string `dynamodbav:"religiosity,omitempty" json:"religiosity,omitempty"`
	Sect              string `dynamodbav:"sect,omitempty" json:"sect,omitempty"`
	Education         string `dynamodbav:"education,omitempty" json:"education,omitempty"`
	MaritalStatus     string `dynamodbav:"maritalStatus,omitempty" json:"marital_status,omitempty"`
	Smoking           string `dynamodbav:"smoking,omitempty" json:"smoking,omitempty"`
	WantsChildren     string `dynamodbav:"wantsChildren,omitempty" json:"wants_children,omitempty"`
	WillingToRelocate string `dynamodbav:"willingToRelocate,omitempty" json:"willing_to_relocate,omitempty"`
	Origin            string `dynamodbav:"origin,omitempty" json:"origin,omitempty"`
}
