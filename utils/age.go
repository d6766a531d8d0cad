package utils

import "time"

const birthDateLayout = "2006-01-02"

// AgeOn returns the age in whole years on the given day for a YYYY-MM-DD birth date.
func AgeOn(birthDate string, now time.Time) (int, bool) {
	dob, err := time.Parse(birthDateLayout, birthDate)
	if err != nil {
		return 0, false
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
