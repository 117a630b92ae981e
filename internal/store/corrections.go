package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobmate/recruiter-service/internal/model"
)

// correctionTarget names where a (kind, field) correction lives. The human
// column sits next to the AI column; the AI column is only ever read.
type correctionTarget struct {
	table    string
	humanCol string
	aiCol    string
	cast     string // SQL type the human value is cast to
}

var correctionTargets = map[model.EntityKind]map[model.CorrectionField]correctionTarget{
	model.EntityEmail: {
		model.FieldScore:     {table: "emails", humanCol: "human_score", aiCol: "ai_score", cast: "int"},
		model.FieldCategory:  {table: "emails", humanCol: "human_category", aiCol: "ai_category", cast: "text"},
		model.FieldRelevance: {table: "emails", humanCol: "human_relevance", aiCol: "NULL", cast: "text"},
	},
	model.EntityJob: {
		model.FieldScore: {table: "job_postings", humanCol: "human_score", aiCol: "ai_score", cast: "int"},
	},
}

func targetFor(kind model.EntityKind, field model.CorrectionField) (correctionTarget, error) {
	t, ok := correctionTargets[kind][field]
	if !ok {
		return correctionTarget{}, fmt.Errorf("no column for %s %s correction", kind, field)
	}
	return t, nil
}

// updateSQL builds the entity update. Identifiers come from the fixed table
// above, never from input.
func (t correctionTarget) updateSQL() string {
	return fmt.Sprintf(
		`UPDATE %s SET %s = $1::%s, corrected_at = $2 WHERE id::text = $3 RETURNING COALESCE(%s::text, '')`,
		t.table, t.humanCol, t.cast, t.aiCol,
	)
}

// SaveCorrection writes the human value and corrected_at, then appends an
// audit row holding both values, in one transaction. The returned record
// carries the audit row id and the AI value read back from the entity.
func (s *Store) SaveCorrection(ctx context.Context, rec model.CorrectionRecord) (model.CorrectionRecord, error) {
	target, err := targetFor(rec.Kind, rec.Field)
	if err != nil {
		return model.CorrectionRecord{}, err
	}

	saved := rec
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, target.updateSQL(), rec.HumanValue, rec.CorrectedAt, rec.EntityID).Scan(&saved.AIValue)
		if err != nil {
			return notFound(err)
		}

		saved.ID = s.ids.Generate().Int64()
		_, err = tx.Exec(ctx, `
			INSERT INTO correction_log (id, entity_kind, entity_id, field, ai_value, human_value, corrected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			saved.ID, string(rec.Kind), rec.EntityID, string(rec.Field),
			saved.AIValue, rec.HumanValue, rec.CorrectedAt,
		)
		return err
	})
	if err != nil {
		return model.CorrectionRecord{}, err
	}
	return saved, nil
}

// CorrectionStats aggregates divergence between AI and human values.
func (s *Store) CorrectionStats(ctx context.Context) (model.CorrectionStats, error) {
	var st model.CorrectionStats
	err := s.pool.QueryRow(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM emails),
		  (SELECT COUNT(*) FROM emails WHERE corrected_at IS NOT NULL),
		  (SELECT COUNT(*) FROM emails WHERE human_score IS NOT NULL AND human_score IS DISTINCT FROM ai_score),
		  (SELECT COUNT(*) FROM emails WHERE human_category IS NOT NULL AND human_category IS DISTINCT FROM ai_category),
		  (SELECT COUNT(*) FROM job_postings),
		  (SELECT COUNT(*) FROM job_postings WHERE corrected_at IS NOT NULL),
		  (SELECT COUNT(*) FROM job_postings WHERE human_score IS NOT NULL AND human_score IS DISTINCT FROM ai_score),
		  (SELECT COUNT(*) FROM emails WHERE human_relevance = 'up'),
		  (SELECT COUNT(*) FROM emails WHERE human_relevance = 'down')`,
	).Scan(
		&st.EmailsTotal, &st.EmailsCorrected, &st.EmailScoreDisagree, &st.EmailCategoryDisagree,
		&st.JobsTotal, &st.JobsCorrected, &st.JobScoreDisagree,
		&st.RelevanceUp, &st.RelevanceDown,
	)
	if err != nil {
		return model.CorrectionStats{}, err
	}
	return st, nil
}
