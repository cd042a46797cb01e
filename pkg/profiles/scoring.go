package profiles

import (
	"context"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

// The methods below expose a user's profile in the shape the recommendation scorer reads.

func (r *Registry) ScoringPreferences(ctx context.Context, userID string) (*recommendations.Preferences, error) {
	prefs, err := r.GetPreferences(ctx, userID)
	if err != nil || prefs == nil {
		return nil, err
	}

	return &recommendations.Preferences{
		PreferredCategories: prefs.PreferredCategories,
		PreferredDuration:   prefs.PreferredDuration,
		PreferredRegions:    prefs.PreferredRegions,
		TravelStyle:         prefs.TravelStyle,
	}, nil
}

func (r *Registry) ScoringActivity(ctx context.Context, userID string, limit int) ([]recommendations.Activity, error) {
	records, err := r.RecentActivity(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]recommendations.Activity, len(records))
	for i, rec := range records {
		out[i] = recommendations.Activity{
			ActionType: rec.ActionType,
			EntityType: rec.EntityType,
			EntityID:   rec.EntityID,
			Timestamp:  rec.CreatedAt,
		}
	}

	return out, nil
}

func (r *Registry) ScoringBookmarks(ctx context.Context, userID string) ([]recommendations.Bookmark, error) {
	bookmarks, err := r.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]recommendations.Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = recommendations.Bookmark{RouteID: b.RouteID}
	}

	return out, nil
}
