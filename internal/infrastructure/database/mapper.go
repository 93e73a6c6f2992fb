package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"localebatch/internal/domain/entities"
)

// outcomeRow mirrors a translation_outcomes row.
type outcomeRow struct {
	RunID        pgtype.UUID        `db:"run_id"`
	Job          string             `db:"job"`
	LanguageCode string             `db:"language_code"`
	LanguageName string             `db:"language_name"`
	Status       string             `db:"status"`
	ArtifactPath string             `db:"artifact_path"`
	ErrorCode    string             `db:"error_code"`
	ErrorMessage string             `db:"error_message"`
	DurationMS   int64              `db:"duration_ms"`
	RecordedAt   pgtype.Timestamptz `db:"recorded_at"`
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func outcomeToDomain(r outcomeRow) entities.Outcome {
	return entities.Outcome{
		Language:     entities.Language{Code: r.LanguageCode, Name: r.LanguageName},
		Status:       r.Status,
		ArtifactPath: r.ArtifactPath,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
		Duration:     time.Duration(r.DurationMS) * time.Millisecond,
		RecordedAt:   pgtypeTimestamptzToTime(r.RecordedAt),
	}
}
