package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"vibin_discovery/models"
)

type UserProfileService struct {
	Store Store
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return ups.Store.GetProfile(ctx, userID)
}

// UpdateLocation stores the device location reported by the app
func (ups *UserProfileService) UpdateLocation(ctx context.Context, userID string, loc models.LocationUpdate) (*models.UserProfile, error) {
	if math.Abs(loc.Latitude) > 90 || math.Abs(loc.Longitude) > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidPreferences)
	}
	profile, err := ups.Store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Latitude = loc.Latitude
	profile.Longitude = loc.Longitude
	if loc.City != "" {
		profile.City = loc.City
	}
	if loc.Country != "" {
		profile.Country = loc.Country
	}
	if err := ups.Store.PutProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return profile, nil
}

// GetPreferences returns the user's discovery filters, empty if never set
func (ups *UserProfileService) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	prefs, err := ups.Store.GetPreferences(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return &models.Preferences{UserID: userID}, nil
	}
	return prefs, err
}

// UpdatePreferences validates and replaces the user's discovery filters
func (ups *UserProfileService) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.Preferences, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}
	prefs.UserID = userID
	if err := ups.Store.PutPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to store preferences: %w", err)
	}
	return &prefs, nil
}

func validatePreferences(p models.Preferences) error {
	if p.AgeMin != 0 && p.AgeMin < 18 {
		return fmt.Errorf("%w: age_min must be at least 18", ErrInvalidPreferences)
	}
	if p.AgeMax != 0 && p.AgeMin > p.AgeMax {
		return fmt.Errorf("%w: age_min exceeds age_max", ErrInvalidPreferences)
	}
	if p.MaxDistanceKm < 0 {
		return fmt.Errorf("%w: max_distance_km must not be negative", ErrInvalidPreferences)
	}
	return nil
}
