package postgres

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

const tableRecommendations = "recommendations"

var recommendationColumns = []string{
	"id",
	"user_id",
	"route_id",
	"score",
	"position",
	"reasons",
	"explanation",
	"created_at",
	"expires_at",
	"shown_at",
	"clicked_at",
}

type recommendationRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	RouteID     string     `db:"route_id"`
	Score       float64    `db:"score"`
	Position    int        `db:"position"`
	Reasons     []string   `db:"reasons"`
	Explanation string     `db:"explanation"`
	CreatedAt   time.Time  `db:"created_at"`
	ExpiresAt   time.Time  `db:"expires_at"`
	ShownAt     *time.Time `db:"shown_at"`
	ClickedAt   *time.Time `db:"clicked_at"`
}

type RecommendationRepository struct {
	db *DB
}

func NewRecommendationRepository(db *DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ReplaceForUser deletes the user's recommendations and inserts the new set in one transaction.
func (r *RecommendationRepository) ReplaceForUser(ctx context.Context, userID string, recs []*recommendations.Recommendation) error {
	return pgx.BeginFunc(ctx, r.db.Pool(), func(tx pgx.Tx) error {
		query, args := builder.Delete(tableRecommendations).
			Where(sql.EQ("user_id", userID)).
			Query()

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}

		if len(recs) == 0 {
			return nil
		}

		insert := builder.Insert(tableRecommendations).
			Columns(recommendationColumns...)
		for _, rec := range recs {
			insert = insert.Values(
				rec.ID,
				userID,
				rec.RouteID,
				rec.Score,
				rec.Position,
				nonNil(rec.Reasons),
				rec.Explanation,
				rec.CreatedAt,
				rec.ExpiresAt,
				rec.ShownAt,
				rec.ClickedAt,
			)
		}

		query, args = insert.Query()
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert recommendations: %w", err)
		}

		return nil
	})
}

// ListActive returns the user's recommendations that expire after now in ranked order.
func (r *RecommendationRepository) ListActive(ctx context.Context, userID string, now time.Time) ([]*recommendations.Recommendation, error) {
	query, args := builder.Select(recommendationColumns...).
		From(sql.Table(tableRecommendations)).
		Where(sql.And(
			sql.EQ("user_id", userID),
			sql.GT("expires_at", now),
		)).
		OrderBy("position").
		Query()

	rows, err := collectAll[recommendationRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}

	out := make([]*recommendations.Recommendation, len(rows))
	for i, row := range rows {
		out[i] = recommendationFromRow(row)
	}
	return out, nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id string) (*recommendations.Recommendation, error) {
	query, args := builder.Select(recommendationColumns...).
		From(sql.Table(tableRecommendations)).
		Where(sql.EQ("id", id)).
		Query()

	row, err := collectOne[recommendationRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query recommendation: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return recommendationFromRow(row), nil
}

func (r *RecommendationRepository) MarkShown(ctx context.Context, id string, at time.Time) error {
	query, args := builder.Update(tableRecommendations).
		Set("shown_at", at).
		Where(sql.EQ("id", id)).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update shown_at: %w", err)
	}
	return nil
}

// MarkClicked sets clicked_at and fills shown_at when it was never set.
func (r *RecommendationRepository) MarkClicked(ctx context.Context, id string, at time.Time) error {
	query, args := builder.Update(tableRecommendations).
		Set("clicked_at", at).
		Set("shown_at", sql.ExprFunc(func(b *sql.Builder) {
			b.WriteString("COALESCE(shown_at, ")
			b.Arg(at)
			b.WriteString(")")
		})).
		Where(sql.EQ("id", id)).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update clicked_at: %w", err)
	}
	return nil
}

// DeleteExpired removes every recommendation that expired at or before now.
func (r *RecommendationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args := builder.Delete(tableRecommendations).
		Where(sql.LTE("expires_at", now)).
		Query()

	tag, err := r.db.Pool().Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired recommendations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func recommendationFromRow(row *recommendationRow) *recommendations.Recommendation {
	return &recommendations.Recommendation{
		ID:          row.ID,
		UserID:      row.UserID,
		RouteID:     row.RouteID,
		Score:       row.Score,
		Position:    row.Position,
		Reasons:     row.Reasons,
		Explanation: row.Explanation,
		CreatedAt:   row.CreatedAt,
		ExpiresAt:   row.ExpiresAt,
		ShownAt:     row.ShownAt,
		ClickedAt:   row.ClickedAt,
	}
}
