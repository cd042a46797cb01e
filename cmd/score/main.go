package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib/log"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

type Config struct {
	// Month pins the seasonal term; 0 uses the current month.
	Month           int `validate:"min=0,max=12"`
	Limit           int `validate:"min=1,max=1000"`
	NormalizeRating bool
	Explain         bool
	LogLevel        string `validate:"required,oneof=trace debug info warn error fatal"`
}

func main() {
	var config Config

	flag.IntVar(&config.Month, "month", 0, "Month (1-12) used for the seasonal boost, 0 = current month")
	flag.IntVar(&config.Limit, "limit", recommendations.DefaultLimit, "Maximum number of scores to print")
	flag.BoolVar(&config.NormalizeRating, "normalize-rating", false, "Divide route ratings by 5 before weighting")
	flag.BoolVar(&config.Explain, "explain", false, "Include the per-term breakdown of every score")
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level written to stderr")
	flag.Parse()

	if err := run(config, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(config Config, in io.Reader, out io.Writer) error {
	if err := lib.ValidateStruct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := log.NewLoggerWithWriter(&log.Config{
		Level:   log.LogLevel(config.LogLevel),
		Format:  log.LogFormatConsole,
		Service: "score",
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read scoring context: %w", err)
	}

	var scoringContext recommendations.ScoringContext
	if err := json.Unmarshal(raw, &scoringContext); err != nil {
		return fmt.Errorf("parse scoring context: %w", err)
	}

	clock := time.Now
	if config.Month > 0 {
		pinned := time.Date(time.Now().Year(), time.Month(config.Month), 15, 12, 0, 0, 0, time.UTC)
		clock = func() time.Time { return pinned }
	}

	scorer := recommendations.NewScorer(
		recommendations.WithClock(clock),
		recommendations.WithLimit(config.Limit),
		recommendations.WithNormalizedRating(config.NormalizeRating),
	)

	scores := scorer.RecommendExplained(scoringContext)

	logger.Debug().
		Str("user_id", scoringContext.UserID).
		Int("routes", len(scoringContext.AllRoutes)).
		Int("bookmarks", len(scoringContext.Bookmarks)).
		Int("activity", len(scoringContext.RecentActivity)).
		Bool("has_preferences", scoringContext.Preferences != nil).
		Stringer("month", clock().Month()).
		Int("scores", len(scores)).
		Msg("Scored routes")

	var res any = scores
	if !config.Explain {
		plain := make([]recommendations.Score, len(scores))
		for i, s := range scores {
			plain[i] = s.Score
		}
		res = plain
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}

	return nil
}
