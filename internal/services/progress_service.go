package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// chartDays is how many trailing days the study time chart shows
	chartDays = 7
	// chartMinMinutes is the lowest top of the chart's Y axis
	chartMinMinutes = 60
	// chartStepMinutes is the spacing of the chart's Y axis labels
	chartStepMinutes = 15
	// chartMaxMinutes bounds a single day's bar; a day has no more minutes than this
	chartMaxMinutes = 24 * 60
	// activitiesGoal is the lesson plus quiz count that fills overall progress
	activitiesGoal = 100
	// checkInGoal is the check-in count that fills check-in progress
	checkInGoal = 30
)

// ProgressSource is the interface that wraps methods for reading a caller's progress from the progress API
type ProgressSource interface {
	// Method FetchSummary retrieve the aggregate counters of the caller identified by "token".
	//
	// A nil summary with a nil error means the caller has no data yet.
	FetchSummary(ctx context.Context, token string) (*models.ProgressSummary, error)
	// Method FetchStats retrieve the caller's daily activity, oldest day first.
	FetchStats(ctx context.Context, token string) ([]models.DailyStat, error)
}

// DashboardFixtures is the placeholder data shown when the progress API has nothing for the caller
type DashboardFixtures struct {
	Summary models.ProgressSummary
	Stats   []models.DailyStat
}

// DefaultDashboardFixtures returns a fresh copy of the built-in placeholder data
func DefaultDashboardFixtures() DashboardFixtures {
	return DashboardFixtures{
		Summary: models.ProgressSummary{
			TotalLessonsCompleted: 3,
			TotalQuizzesTaken:     2,
			TotalStudyTime:        90,
			TotalPointsEarned:     50,
			TotalCheckIns:         2,
			CurrentStreak:         1,
			TotalPoints:           50,
			LoginStreak:           1,
		},
		Stats: []models.DailyStat{
			{Date: "2025-07-01", LessonsCompleted: 1, QuizzesTaken: 1, StudyTime: 30, PointsEarned: 10, CheckIns: 1},
			{Date: "2025-07-02", LessonsCompleted: 0, QuizzesTaken: 0, StudyTime: 20, PointsEarned: 5, CheckIns: 0},
			{Date: "2025-07-03", LessonsCompleted: 1, QuizzesTaken: 1, StudyTime: 25, PointsEarned: 15, CheckIns: 1},
			{Date: "2025-07-04", LessonsCompleted: 1, QuizzesTaken: 0, StudyTime: 15, PointsEarned: 10, CheckIns: 0},
			{Date: "2025-07-05"},
			{Date: "2025-07-06"},
			{Date: "2025-07-07"},
		},
	}
}

type progressService struct {
	source   ProgressSource
	fixtures DashboardFixtures
	logger   *zap.Logger
}

// NewProgressService creates a new progress dashboard service.
//
// The fixture stats are copied so the caller may reuse its slice.
func NewProgressService(source ProgressSource, fixtures DashboardFixtures, logger *zap.Logger) *progressService {
	fixtures.Stats = append([]models.DailyStat(nil), fixtures.Stats...)
	return &progressService{
		source:   source,
		fixtures: fixtures,
		logger:   logger,
	}
}

// GetDashboard fetches the caller's summary and daily stats concurrently and builds the dashboard view model.
//
// Fetch failures are logged and treated as missing data. Only a cancelled ctx is returned as an error.
func (s *progressService) GetDashboard(ctx context.Context, token string) (*models.ProgressDashboard, error) {
	dashboard := &models.ProgressDashboard{State: models.DashboardLoading}

	var (
		summary *models.ProgressSummary
		stats   []models.DailyStat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.source.FetchSummary(gctx, token)
		if err != nil {
			s.logger.Warn("failed to fetch progress summary", zap.Error(err))
			summary = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.source.FetchStats(gctx, token)
		if err != nil {
			s.logger.Warn("failed to fetch progress stats", zap.Error(err))
			stats = nil
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dashboard load interrupted: %w", err)
	}

	s.fill(dashboard, summary, stats)
	return dashboard, nil
}

// fill applies the placeholder policy and derives every display value, then marks the dashboard ready.
//
// Real stats are only shown next to a real summary.
func (s *progressService) fill(d *models.ProgressDashboard, summary *models.ProgressSummary, stats []models.DailyStat) {
	if summary == nil {
		d.Summary = s.fixtures.Summary
		d.UsingPlaceholderSummary = true
	} else {
		d.Summary = *summary
	}

	if len(stats) == 0 || summary == nil {
		d.Stats = append([]models.DailyStat(nil), s.fixtures.Stats...)
		d.UsingPlaceholderStats = true
	} else {
		d.Stats = stats
	}

	d.Cards = summaryCards(d.Summary)
	d.OverallProgress = overallProgress(d.Summary)
	d.StreakProgress = streakProgress(d.Summary)
	d.CheckInProgress = checkInProgress(d.Summary)
	d.CheckIns = d.Summary.TotalCheckIns
	d.Chart = studyTimeChart(d.Stats)
	d.State = models.DashboardReady
}

func summaryCards(summary models.ProgressSummary) []models.StatCard {
	return []models.StatCard{
		{Label: "Lessons Completed", Value: strconv.Itoa(summary.TotalLessonsCompleted)},
		{Label: "Quizzes Taken", Value: strconv.Itoa(summary.TotalQuizzesTaken)},
		{Label: "Study Time", Value: formatStudyTime(summary.TotalStudyTime)},
		{Label: "Total Points", Value: strconv.Itoa(summary.TotalPoints)},
	}
}

func overallProgress(summary models.ProgressSummary) float64 {
	activities := float64(summary.TotalLessonsCompleted + summary.TotalQuizzesTaken)
	return math.Min(activities/activitiesGoal*100, 100)
}

func streakProgress(summary models.ProgressSummary) float64 {
	return float64(summary.CurrentStreak) / float64(max(summary.LoginStreak, 1)) * 100
}

func checkInProgress(summary models.ProgressSummary) float64 {
	return float64(summary.TotalCheckIns) / checkInGoal * 100
}

// studyTimeChart builds the bar chart of the last chartDays entries of stats
func studyTimeChart(stats []models.DailyStat) models.StudyTimeChart {
	if len(stats) > chartDays {
		stats = stats[len(stats)-chartDays:]
	}

	maxMinutes := chartMinMinutes
	for _, day := range stats {
		maxMinutes = max(maxMinutes, chartMinutes(day.StudyTime))
	}

	bars := make([]models.ChartBar, 0, len(stats))
	for _, day := range stats {
		minutes := chartMinutes(day.StudyTime)
		bars = append(bars, models.ChartBar{
			Date:          day.Date,
			Label:         dayLabel(day.Date),
			StudyTime:     minutes,
			HeightPercent: float64(minutes) / float64(maxMinutes) * 100,
			Tooltip: fmt.Sprintf("%d lessons, %d quizzes, %s study",
				day.LessonsCompleted, day.QuizzesTaken, formatStudyTime(minutes)),
		})
	}

	return models.StudyTimeChart{
		MaxMinutes: maxMinutes,
		YLabels:    yAxisLabels(maxMinutes),
		Bars:       bars,
	}
}

// chartMinutes clamps a day's study time reported by the progress API to [0, chartMaxMinutes]
func chartMinutes(studyTime int) int {
	return min(max(studyTime, 0), chartMaxMinutes)
}

// yAxisLabels lists the axis marks from the rounded-up top down to zero
func yAxisLabels(maxMinutes int) []string {
	maxMinutes = chartMinutes(maxMinutes)
	top := (maxMinutes + chartStepMinutes - 1) / chartStepMinutes * chartStepMinutes

	labels := make([]string, 0, top/chartStepMinutes+1)
	for m := top; m >= 0; m -= chartStepMinutes {
		switch {
		case m != 0 && m%60 == 0:
			labels = append(labels, fmt.Sprintf("%dh", m/60))
		case m != 0:
			labels = append(labels, fmt.Sprintf("%dm", m))
		default:
			labels = append(labels, "0m")
		}
	}
	return labels
}

// dayLabel renders a YYYY-MM-DD date as "Jan 2", falling back to the raw value
func dayLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// formatStudyTime renders minutes as "Xh Ym", or "Ym" under an hour
func formatStudyTime(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
