package services

import (
	"strings"
	"time"

	"vibin_discovery/models"
	"vibin_discovery/utils"
)

// Eligible reports whether candidate passes the viewer's discovery filters.
// Candidates with an unknown location pass the distance filter; candidates
// with an unknown birth date fail an age filter.
func Eligible(viewer models.UserProfile, prefs models.Preferences, candidate models.UserProfile, now time.Time) bool {
	if candidate.Hidden || candidate.UserID == viewer.UserID {
		return false
	}

	if prefs.AgeMin > 0 || prefs.AgeMax > 0 {
		age, ok := utils.AgeOn(candidate.BirthDate, now)
		if !ok {
			return false
		}
		if prefs.AgeMin > 0 && age < prefs.AgeMin {
			return false
		}
		if prefs.AgeMax > 0 && age > prefs.AgeMax {
			return false
		}
	}

	if prefs.MaxDistanceKm > 0 &&
		utils.HasLocation(viewer.Latitude, viewer.Longitude) &&
		utils.HasLocation(candidate.Latitude, candidate.Longitude) {
		d := utils.CalculateDistance(viewer.Latitude, viewer.Longitude, candidate.Latitude, candidate.Longitude)
		if d > float64(prefs.MaxDistanceKm) {
			return false
		}
	}

	return acceptsValue(prefs.Religiosity, candidate.Religiosity) &&
		acceptsValue(prefs.Sect, candidate.Sect) &&
		acceptsValue(prefs.Education, candidate.Education) &&
		acceptsValue(prefs.MaritalStatus, candidate.MaritalStatus) &&
		acceptsValue(prefs.Smoking, candidate.Smoking) &&
		acceptsValue(prefs.WantsChildren, candidate.WantsChildren) &&
		acceptsValue(prefs.WillingToRelocate, candidate.WillingToRelocate) &&
		acceptsValue(prefs.Origin, candidate.Origin)
}

// acceptsValue matches a comma separated list of accepted values, case-insensitively.
// An empty list accepts everything.
func acceptsValue(accepted, value string) bool {
	if strings.TrimSpace(accepted) == "" {
		return true
	}
	for _, a := range strings.Split(accepted, ",") {
		if strings.EqualFold(strings.TrimSpace(a), value) {
			return true
		}
	}
	return false
}
