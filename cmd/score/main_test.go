package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoringContext = `{
	"userId": "u1",
	"preferences": {
		"preferredCategories": ["Kastelen & Eten"],
		"preferredDuration": "2-4 uur",
		"preferredRegions": ["limburg"],
		"travelStyle": "cultural"
	},
	"recentActivity": [],
	"bookmarks": [{"routeId": "r3"}],
	"allRoutes": [
		{"id": "r1", "category": "Strand & Natuur", "rating": 3.0, "duration": "hele dag", "regionId": "zeeland"},
		{"id": "r2", "category": "Kastelen & Eten", "rating": 5.0, "duration": "2-4 uur", "regionId": "limburg"},
		{"id": "r3", "category": "Kastelen & Eten", "rating": 5.0, "duration": "2-4 uur", "regionId": "limburg"}
	]
}`

func TestRun(t *testing.T) {
	var out bytes.Buffer

	err := run(Config{Month: 10, Limit: 10, LogLevel: "error"}, strings.NewReader(scoringContext), &out)
	require.NoError(t, err)

	var scores []struct {
		RouteID string   `json:"routeId"`
		Score   float64  `json:"score"`
		Reasons []string `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &scores))

	require.Len(t, scores, 2)
	assert.Equal(t, "r2", scores[0].RouteID)
	assert.Equal(t, "r1", scores[1].RouteID)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
}

func TestRun_Explain(t *testing.T) {
	var out bytes.Buffer

	err := run(Config{Month: 10, Limit: 1, Explain: true, LogLevel: "error"}, strings.NewReader(scoringContext), &out)
	require.NoError(t, err)

	var scores []struct {
		RouteID   string             `json:"routeId"`
		Breakdown map[string]float64 `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &scores))

	require.Len(t, scores, 1)
	assert.Equal(t, "r2", scores[0].RouteID)
	assert.InDelta(t, 0.3, scores[0].Breakdown["category"], 1e-9)
}

func TestRun_InvalidInput(t *testing.T) {
	var out bytes.Buffer

	err := run(Config{Limit: 10, LogLevel: "error"}, strings.NewReader("{"), &out)
	assert.Error(t, err)

	err = run(Config{Month: 13, Limit: 10, LogLevel: "error"}, strings.NewReader(scoringContext), &out)
	assert.Error(t, err)
}

func TestRun_ExplainDuplicateRouteIDs(t *testing.T) {
	var out bytes.Buffer

	in := `{"allRoutes": [
		{"id": "dup", "category": "Fietsen", "rating": 2.0},
		{"id": "dup", "category": "Fietsen", "rating": 4.0}
	]}`

	err := run(Config{Month: 10, Limit: 10, Explain: true, LogLevel: "error"}, strings.NewReader(in), &out)
	require.NoError(t, err)

	var scores []struct {
		Score     float64            `json:"score"`
		Breakdown map[string]float64 `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &scores))

	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.InDelta(t, s.Score, s.Breakdown["rating"], 1e-9)
	}
}
