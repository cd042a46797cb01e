package api

import (
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/profiles"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

func serializeRegions(in []*catalog.Region) []Region {
	out := make([]Region, len(in))
	for i, r := range in {
		out[i] = serializeRegion(r)
	}
	return out
}

func serializeRegion(in *catalog.Region) Region {
	return Region{
		Id:          in.ID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
	}
}

func serializeRoutes(in []*catalog.Route) []Route {
	out := make([]Route, len(in))
	for i, r := range in {
		out[i] = serializeRoute(r)
	}
	return out
}

func serializeRoute(in *catalog.Route) Route {
	return Route{
		Id:          in.ID,
		RegionId:    in.RegionID,
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Category:    in.Category,
		Rating:      in.Rating,
		Duration:    in.Duration,
		DistanceKm:  in.DistanceKm,
		CreatedAt:   in.CreatedAt,
	}
}

func serializeRouteDetail(in *catalog.RouteDetail) RouteDetail {
	stops := make([]Stop, len(in.Stops))
	for i, s := range in.Stops {
		stops[i] = Stop{
			Id:          s.ID,
			Position:    s.Position,
			Name:        s.Name,
			Description: s.Description,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
		}
	}

	return RouteDetail{
		Route: serializeRoute(in.Route),
		Stops: stops,
	}
}

// serializePreferences renders the defaults for users without stored preferences.
func serializePreferences(in *profiles.Preferences) Preferences {
	if in == nil {
		return Preferences{
			PreferredCategories: []string{},
			PreferredRegions:    []string{},
			TravelStyle:         string(recommendations.DefaultTravelStyle),
		}
	}

	updatedAt := in.UpdatedAt
	return Preferences{
		PreferredCategories: nonNil(in.PreferredCategories),
		PreferredDuration:   in.PreferredDuration,
		PreferredRegions:    nonNil(in.PreferredRegions),
		TravelStyle:         string(in.TravelStyle),
		UpdatedAt:           &updatedAt,
	}
}

func serializeRecommendation(in *recommendations.Recommendation, route *Route) Recommendation {
	return Recommendation{
		Id:          in.ID,
		RouteId:     in.RouteID,
		Route:       route,
		Score:       in.Score,
		Reasons:     nonNil(in.Reasons),
		Explanation: in.Explanation,
		CreatedAt:   in.CreatedAt,
		ExpiresAt:   in.ExpiresAt,
		ShownAt:     in.ShownAt,
		ClickedAt:   in.ClickedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
