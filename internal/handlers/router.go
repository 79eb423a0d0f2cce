package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

type HandlerManager struct {
	questionnaireHandler *QuestionnaireHandler
	submissionHandler    *SubmissionHandler
	scoringHandler       *ScoringHandler
	analyticsHandler     *AnalyticsHandler
}

func NewHandlerManager(
	questionnaireService services.QuestionnaireService,
	submissionService services.SubmissionService,
	scoringService services.ScoringService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionnaireHandler: NewQuestionnaireHandler(questionnaireService, logger),
		submissionHandler:    NewSubmissionHandler(submissionService, logger),
		scoringHandler:       NewScoringHandler(scoringService, logger),
		analyticsHandler:     NewAnalyticsHandler(analyticsService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes. The auth middleware guards the
// API group; the health endpoint stays open for probes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "scoring-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	if authMiddleware != nil {
		v1.Use(authMiddleware)
	}
	{
		// Questionnaire routes
		questionnaires := v1.Group("/questionnaires")
		{
			questionnaires.POST("", hm.questionnaireHandler.CreateQuestionnaire)
			questionnaires.GET("", hm.questionnaireHandler.ListQuestionnaires)
			questionnaires.GET("/:id", hm.questionnaireHandler.GetQuestionnaire)
			questionnaires.PUT("/:id", hm.questionnaireHandler.UpdateQuestionnaire)
			questionnaires.DELETE("/:id", hm.questionnaireHandler.DeleteQuestionnaire)
			questionnaires.PUT("/:id/structure", hm.questionnaireHandler.UpdateStructure)
			questionnaires.POST("/:id/publish", hm.questionnaireHandler.PublishQuestionnaire)
			questionnaires.POST("/:id/archive", hm.questionnaireHandler.ArchiveQuestionnaire)

			// Class analytics
			questionnaires.GET("/:id/class-stats", hm.analyticsHandler.GetClassStatistics)
			questionnaires.GET("/:id/class-stats/export", hm.analyticsHandler.ExportClassStatistics)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.POST("", hm.submissionHandler.CreateSubmission)
			submissions.GET("", hm.submissionHandler.ListSubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.PUT("/:id/answers", hm.submissionHandler.UpdateAnswers)
			submissions.DELETE("/:id", hm.submissionHandler.DeleteSubmission)

			// Scoring
			submissions.GET("/:id/report", hm.scoringHandler.GetReport)
			submissions.POST("/:id/rescore", hm.scoringHandler.RescoreSubmission)
		}

		// Student analytics routes
		students := v1.Group("/students")
		{
			students.GET("/:student_id/trends", hm.analyticsHandler.GetStudentTrends)
			students.GET("/:student_id/trends/export", hm.analyticsHandler.ExportStudentTrends)
		}
	}
}
