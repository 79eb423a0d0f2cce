package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportService renders analytics output as spreadsheet files for
// therapists who work outside the dashboard.
type ExportService interface {
	ExportClassStatistics(ctx context.Context, questionnaireID uint, studentIDs []string) ([]byte, string, error)
	ExportStudentTrends(ctx context.Context, studentID string, questionnaireID uint, timeRange TimeRange) ([]byte, string, error)
}

type exportService struct {
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewExportService(analytics AnalyticsService, logger *slog.Logger) ExportService {
	return &exportService{
		analytics: analytics,
		logger:    logger,
	}
}

func (s *exportService) ExportClassStatistics(ctx context.Context, questionnaireID uint, studentIDs []string) ([]byte, string, error) {
	stats, err := s.analytics.GetClassStatistics(ctx, questionnaireID, studentIDs)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Class Statistics"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Domain", "Path", "Submissions", "Average", "Median", "Min", "Max", "Std Dev",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, domain := range stats.Domains {
		row := []interface{}{
			domain.Title,
			strings.Join(domain.NodePath, " / "),
			domain.SubmissionCount,
			domain.AverageScore,
			domain.MedianScore,
			domain.MinScore,
			domain.MaxScore,
			domain.StandardDeviation,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(stats.Domains) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Students")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), stats.StudentCount)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+1), "Overall average")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+1), stats.OverallAverage)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("class-statistics-%d-%s.xlsx", questionnaireID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func (s *exportService) ExportStudentTrends(ctx context.Context, studentID string, questionnaireID uint, timeRange TimeRange) ([]byte, string, error) {
	trends, err := s.analytics.GetStudentTrends(ctx, studentID, questionnaireID, timeRange)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Progress"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Domain", "Submitted At", "Score", "Latest", "Change"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, trend := range trends.DomainTrends {
		for i, point := range trend.Points {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), trend.Title)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), point.SubmittedAt.Format("2006-01-02"))
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), point.Score)
			if i == 0 {
				f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), trend.LatestScore)
				f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), trend.Trend)
			}
			rowIndex++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("progress-%s-%d-%s.xlsx", studentID, questionnaireID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}
