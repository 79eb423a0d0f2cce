package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

type QuestionnaireStatus string

const (
	QuestionnaireDraft    QuestionnaireStatus = "Draft"
	QuestionnaireActive   QuestionnaireStatus = "Active"
	QuestionnaireArchived QuestionnaireStatus = "Archived"
)

// Questionnaire is a stored assessment template. Structure holds the
// ordered forest of group/question nodes as a JSONB document; Version is
// bumped on every structure edit so cached score reports can be keyed to
// the template they were computed against.
type Questionnaire struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	Title       string              `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string             `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Status      QuestionnaireStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,oneof=Draft Active Archived"`

	// Structure is []*scoring.QuestionnaireNode.
	Structure datatypes.JSON `json:"structure" gorm:"type:jsonb"`

	Version   int            `json:"version" gorm:"default:1"`
	CreatedBy string         `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}

// DecodeStructure unmarshals the stored JSONB structure into scoring nodes.
func (q *Questionnaire) DecodeStructure() ([]*scoring.QuestionnaireNode, error) {
	if len(q.Structure) == 0 {
		return nil, nil
	}
	var structure []*scoring.QuestionnaireNode
	if err := json.Unmarshal(q.Structure, &structure); err != nil {
		return nil, err
	}
	return structure, nil
}

// EncodeStructure marshals scoring nodes into the JSONB column format.
func EncodeStructure(structure []*scoring.QuestionnaireNode) (datatypes.JSON, error) {
	raw, err := json.Marshal(structure)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
