package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

// ScoreReport is the persisted scoring output for one submission against
// one template version. The (submission, template version) pair is the
// cache key: a report is stale as soon as either side changes, and a
// version bump writes a new row instead of overwriting history.
type ScoreReport struct {
	ID              uint `json:"id" gorm:"primaryKey"`
	SubmissionID    uint `json:"submission_id" gorm:"not null;uniqueIndex:idx_reports_submission_version"`
	TemplateVersion int  `json:"template_version" gorm:"not null;uniqueIndex:idx_reports_submission_version"`

	OverallScore float64 `json:"overall_score"`

	// Payload is a scoring.SubmissionReport.
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CalculatedAt time.Time `json:"calculated_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Submission Submission `json:"submission" gorm:"foreignKey:SubmissionID"`
}

func (ScoreReport) TableName() string {
	return "score_reports"
}

// DecodePayload unmarshals the stored submission report.
func (r *ScoreReport) DecodePayload() (scoring.SubmissionReport, error) {
	var report scoring.SubmissionReport
	if len(r.Payload) == 0 {
		return report, nil
	}
	err := json.Unmarshal(r.Payload, &report)
	return report, err
}

// EncodePayload marshals a submission report into the JSONB column format.
func EncodePayload(report scoring.SubmissionReport) (datatypes.JSON, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
