package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"vibin_discovery/models"
)

// SeedProfiles loads a JSON array of profiles into store and returns how many were written.
func SeedProfiles(ctx context.Context, store Store, r io.Reader) (int, error) {
	var profiles []models.UserProfile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return 0, fmt.Errorf("failed to decode profiles: %w", err)
	}
	for i, p := range profiles {
		if p.UserID == "" {
			return i, fmt.Errorf("profile %d has no id", i)
		}
		if err := store.PutProfile(ctx, p); err != nil {
			return i, err
		}
	}
	return len(profiles), nil
}
