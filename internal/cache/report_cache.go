package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

const (
	reportKeyPrefix  = "report:"
	defaultReportTTL = 6 * time.Hour
)

// ReportCache is the redis layer in front of the score_reports table.
// Keys carry the template version, so a structure edit leaves only dead
// keys behind rather than wrong answers.
type ReportCache struct {
	cache  CacheService
	ttl    time.Duration
	logger utils.Logger
}

func NewReportCache(cache CacheService, ttl time.Duration, logger utils.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &ReportCache{cache: cache, ttl: ttl, logger: logger}
}

func ReportKey(submissionID uint, templateVersion int) string {
	return fmt.Sprintf("%s%d:%d", reportKeyPrefix, submissionID, templateVersion)
}

// Get returns the cached report, or (nil, nil) on a miss. Redis failures
// are logged and reported as misses: the database stays authoritative.
func (c *ReportCache) Get(ctx context.Context, submissionID uint, templateVersion int) (*scoring.SubmissionReport, error) {
	var report scoring.SubmissionReport
	err := c.cache.Get(ctx, ReportKey(submissionID, templateVersion), &report)
	if IsCacheMiss(err) {
		return nil, nil
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Report cache read failed, falling through",
			"submission_id", submissionID, "error", err)
		return nil, nil
	}
	return &report, nil
}

func (c *ReportCache) Set(ctx context.Context, submissionID uint, templateVersion int, report scoring.SubmissionReport) {
	if err := c.cache.Set(ctx, ReportKey(submissionID, templateVersion), report, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "Report cache write failed",
			"submission_id", submissionID, "error", err)
	}
}

// Invalidate drops every cached report for the submission, across all
// template versions.
func (c *ReportCache) Invalidate(ctx context.Context, submissionID uint) {
	pattern := fmt.Sprintf("%s%d:*", reportKeyPrefix, submissionID)
	if err := c.cache.DeletePattern(ctx, pattern); err != nil {
		c.logger.WarnContext(ctx, "Report cache invalidation failed",
			"submission_id", submissionID, "error", err)
	}
}

// InvalidateMany drops cached reports for a batch of submissions, used
// after a questionnaire structure edit touches every submission at once.
func (c *ReportCache) InvalidateMany(ctx context.Context, submissionIDs []uint) {
	for _, id := range submissionIDs {
		c.Invalidate(ctx, id)
	}
}
