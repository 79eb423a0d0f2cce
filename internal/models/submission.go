package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

// Submission is one student's answer set for one questionnaire. Answers is
// a JSONB snapshot of []scoring.Answer; editing a submission replaces the
// whole answer set, never patches it.
type Submission struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	StudentID       string `json:"student_id" gorm:"not null;index:idx_submissions_student"`
	QuestionnaireID uint   `json:"questionnaire_id" gorm:"not null;index"`

	// TemplateVersion records which questionnaire version was current when
	// the answers were captured. Rescoring uses the current template; the
	// snapshot only documents drift.
	TemplateVersion int `json:"template_version" gorm:"not null;default:1"`

	// Answers is []scoring.Answer.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	SubmittedAt time.Time      `json:"submitted_at" gorm:"not null;index"`
	SubmittedBy string         `json:"submitted_by" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questionnaire Questionnaire `json:"questionnaire" gorm:"foreignKey:QuestionnaireID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// DecodeAnswers unmarshals the stored answer set.
func (s *Submission) DecodeAnswers() ([]scoring.Answer, error) {
	if len(s.Answers) == 0 {
		return nil, nil
	}
	var answers []scoring.Answer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// EncodeAnswers marshals an answer set into the JSONB column format.
func EncodeAnswers(answers []scoring.Answer) (datatypes.JSON, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
