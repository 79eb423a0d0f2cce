package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of scoring events
type EventType string

const (
	// Submission events
	EventSubmissionReceived EventType = "submission.received"
	EventSubmissionScored   EventType = "submission.scored"

	// Report events
	EventReportInvalidated EventType = "report.invalidated"

	// Questionnaire events
	EventQuestionnairePublished EventType = "questionnaire.published"
	EventQuestionnaireRevised   EventType = "questionnaire.revised"
)

const eventSource = "scoring-service"

// ScoringEvent is the base event structure published to the scoring topic
type ScoringEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Submission event payloads

type SubmissionReceivedEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	QuestionnaireID uint      `json:"questionnaire_id"`
	StudentID       string    `json:"student_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	SubmittedBy     string    `json:"submitted_by"`
}

type SubmissionScoredEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	QuestionnaireID uint      `json:"questionnaire_id"`
	StudentID       string    `json:"student_id"`
	TemplateVersion int       `json:"template_version"`
	OverallScore    float64   `json:"overall_score"`
	DomainCount     int       `json:"domain_count"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

// Report event payloads

type ReportInvalidatedEvent struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	TemplateVersion int    `json:"template_version"`
	SubmissionIDs   []uint `json:"submission_ids"`
	Reason          string `json:"reason"`
}

// Questionnaire event payloads

type QuestionnairePublishedEvent struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	Title           string `json:"title"`
	Version         int    `json:"version"`
	CreatorID       string `json:"creator_id"`
}

type QuestionnaireRevisedEvent struct {
	QuestionnaireID uint `json:"questionnaire_id"`
	OldVersion      int  `json:"old_version"`
	NewVersion      int  `json:"new_version"`
}

// Event factory functions

func NewSubmissionReceivedEvent(submissionID, questionnaireID uint, studentID, submittedBy string, submittedAt time.Time) *ScoringEvent {
	return newEvent(EventSubmissionReceived, SubmissionReceivedEvent{
		SubmissionID:    submissionID,
		QuestionnaireID: questionnaireID,
		StudentID:       studentID,
		SubmittedAt:     submittedAt,
		SubmittedBy:     submittedBy,
	})
}

func NewSubmissionScoredEvent(submissionID, questionnaireID uint, studentID string, templateVersion int, overallScore float64, domainCount int, calculatedAt time.Time) *ScoringEvent {
	return newEvent(EventSubmissionScored, SubmissionScoredEvent{
		SubmissionID:    submissionID,
		QuestionnaireID: questionnaireID,
		StudentID:       studentID,
		TemplateVersion: templateVersion,
		OverallScore:    overallScore,
		DomainCount:     domainCount,
		CalculatedAt:    calculatedAt,
	})
}

func NewReportInvalidatedEvent(questionnaireID uint, templateVersion int, submissionIDs []uint, reason string) *ScoringEvent {
	return newEvent(EventReportInvalidated, ReportInvalidatedEvent{
		QuestionnaireID: questionnaireID,
		TemplateVersion: templateVersion,
		SubmissionIDs:   submissionIDs,
		Reason:          reason,
	})
}

func NewQuestionnairePublishedEvent(questionnaireID uint, title string, version int, creatorID string) *ScoringEvent {
	return newEvent(EventQuestionnairePublished, QuestionnairePublishedEvent{
		QuestionnaireID: questionnaireID,
		Title:           title,
		Version:         version,
		CreatorID:       creatorID,
	})
}

func NewQuestionnaireRevisedEvent(questionnaireID uint, oldVersion, newVersion int) *ScoringEvent {
	return newEvent(EventQuestionnaireRevised, QuestionnaireRevisedEvent{
		QuestionnaireID: questionnaireID,
		OldVersion:      oldVersion,
		NewVersion:      newVersion,
	})
}

func newEvent(eventType EventType, data interface{}) *ScoringEvent {
	return &ScoringEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}
