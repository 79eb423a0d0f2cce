package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/repositories"
)

// gormRepository wires the individual postgres repositories behind the
// repositories.Repository facade. WithTransaction hands out a facade bound
// to the transaction's *gorm.DB, so nested calls share one transaction.
type gormRepository struct {
	db *gorm.DB

	questionnaire repositories.QuestionnaireRepository
	submission    repositories.SubmissionRepository
	report        repositories.ScoreReportRepository
	user          repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return newGormRepository(db)
}

func newGormRepository(db *gorm.DB) *gormRepository {
	return &gormRepository{
		db:            db,
		questionnaire: NewQuestionnaireRepository(db),
		submission:    NewSubmissionRepository(db),
		report:        NewScoreReportRepository(db),
		user:          NewUserRepository(db),
	}
}

func (r *gormRepository) Questionnaire() repositories.QuestionnaireRepository {
	return r.questionnaire
}

func (r *gormRepository) Submission() repositories.SubmissionRepository {
	return r.submission
}

func (r *gormRepository) Report() repositories.ScoreReportRepository {
	return r.report
}

func (r *gormRepository) User() repositories.UserRepository {
	return r.user
}

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
