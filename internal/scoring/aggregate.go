package scoring

import (
	"math"
	"sort"
	"strings"
	"time"
)

// AggregatedDomainScore summarizes the scores of one node path across many
// submissions. Scores are kept sorted ascending.
type AggregatedDomainScore struct {
	NodeID            string    `json:"node_id"`
	NodePath          []string  `json:"node_path"`
	Title             string    `json:"title"`
	Scores            []float64 `json:"scores"`
	AverageScore      float64   `json:"average_score"`
	MedianScore       float64   `json:"median_score"`
	MinScore          float64   `json:"min_score"`
	MaxScore          float64   `json:"max_score"`
	StandardDeviation float64   `json:"standard_deviation"`
	SubmissionCount   int       `json:"submission_count"`
}

// Aggregate combines node scores from many score reports into per-path
// summary statistics. Paths that never received a score produce no entry;
// the output is ordered by node path for determinism.
func Aggregate(reports [][]NodeScore) []AggregatedDomainScore {
	type bucket struct {
		nodeID string
		path   []string
		title  string
		scores []float64
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, report := range reports {
		for i := range report {
			ns := &report[i]
			key := strings.Join(ns.NodePath, "/")
			b, ok := buckets[key]
			if !ok {
				b = &bucket{nodeID: ns.NodeID, path: ns.NodePath, title: ns.Title}
				buckets[key] = b
				order = append(order, key)
			}
			b.scores = append(b.scores, ns.Score)
		}
	}
	sort.Strings(order)

	out := make([]AggregatedDomainScore, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sorted := append([]float64(nil), b.scores...)
		sort.Float64s(sorted)

		out = append(out, AggregatedDomainScore{
			NodeID:            b.nodeID,
			NodePath:          b.path,
			Title:             b.title,
			Scores:            sorted,
			AverageScore:      round2(mean(sorted)),
			MedianScore:       round2(median(sorted)),
			MinScore:          sorted[0],
			MaxScore:          sorted[len(sorted)-1],
			StandardDeviation: round2(populationStdDev(sorted)),
			SubmissionCount:   len(sorted),
		})
	}
	return out
}

// TimedReport pairs a score report with its submission timestamp, for
// per-student trend aggregation.
type TimedReport struct {
	SubmittedAt time.Time
	Report      SubmissionReport
}

// TrendPoint is one submission's score for a domain at a point in time.
type TrendPoint struct {
	SubmittedAt time.Time `json:"submitted_at"`
	Score       float64   `json:"score"`
}

// DomainTrend is one student's score series for a domain, newest first.
// Trend is latest minus earliest; a single submission trends flat.
type DomainTrend struct {
	NodeID      string       `json:"node_id"`
	NodePath    []string     `json:"node_path"`
	Title       string       `json:"title"`
	Points      []TrendPoint `json:"points"`
	LatestScore float64      `json:"latest_score"`
	Trend       float64      `json:"trend"`
}

// TrendOverTime builds per-domain score series from one student's reports.
// Only root-level domains are tracked. The input order does not matter;
// series come out sorted by submittedAt descending.
func TrendOverTime(reports []TimedReport) []DomainTrend {
	sorted := append([]TimedReport(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	type series struct {
		nodeID string
		path   []string
		title  string
		points []TrendPoint
	}

	byPath := make(map[string]*series)
	var order []string

	for _, tr := range sorted {
		for _, ns := range tr.Report.DomainScores() {
			key := strings.Join(ns.NodePath, "/")
			s, ok := byPath[key]
			if !ok {
				s = &series{nodeID: ns.NodeID, path: ns.NodePath, title: ns.Title}
				byPath[key] = s
				order = append(order, key)
			}
			s.points = append(s.points, TrendPoint{SubmittedAt: tr.SubmittedAt, Score: ns.Score})
		}
	}
	sort.Strings(order)

	out := make([]DomainTrend, 0, len(order))
	for _, key := range order {
		s := byPath[key]
		trend := DomainTrend{
			NodeID:      s.nodeID,
			NodePath:    s.path,
			Title:       s.title,
			Points:      s.points,
			LatestScore: s.points[0].Score,
		}
		if len(s.points) > 1 {
			trend.Trend = round2(s.points[0].Score - s.points[len(s.points)-1].Score)
		}
		out = append(out, trend)
	}
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median assumes values is sorted ascending and non-empty.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

// populationStdDev is sqrt(mean((x-mean)^2)), no Bessel correction.
func populationStdDev(values []float64) float64 {
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
