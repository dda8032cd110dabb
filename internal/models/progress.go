package models

// ProgressSummary holds the aggregate learning counters of a user
type ProgressSummary struct {
	TotalLessonsCompleted int `json:"totalLessonsCompleted"`
	TotalQuizzesTaken     int `json:"totalQuizzesTaken"`
	TotalStudyTime        int `json:"totalStudyTime"` // minutes
	TotalPointsEarned     int `json:"totalPointsEarned"`
	TotalCheckIns         int `json:"totalCheckIns"`
	CurrentStreak         int `json:"currentStreak"`
	TotalPoints           int `json:"totalPoints"`
	LoginStreak           int `json:"loginStreak"`
}

// DailyStat holds the activity counters of one calendar day
type DailyStat struct {
	Date             string `json:"_id"` // YYYY-MM-DD
	LessonsCompleted int    `json:"lessonsCompleted"`
	QuizzesTaken     int    `json:"quizzesTaken"`
	StudyTime        int    `json:"studyTime"` // minutes
	PointsEarned     int    `json:"pointsEarned"`
	CheckIns         int    `json:"checkIns"`
}

// DashboardState is the lifecycle state of a dashboard load
type DashboardState string

const (
	DashboardLoading DashboardState = "loading"
	DashboardReady   DashboardState = "ready"
)

// StatCard is one headline card of the dashboard
type StatCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartBar is one day in the study time bar chart
type ChartBar struct {
	Date          string  `json:"date"`
	Label         string  `json:"label"`
	StudyTime     int     `json:"studyTime"`
	HeightPercent float64 `json:"heightPercent"`
	Tooltip       string  `json:"tooltip"`
}

// StudyTimeChart is the weekly study time bar chart
type StudyTimeChart struct {
	MaxMinutes int        `json:"maxMinutes"`
	YLabels    []string   `json:"yLabels"`
	Bars       []ChartBar `json:"bars"`
}

// ProgressDashboard is the view model rendered by the progress page
type ProgressDashboard struct {
	State                   DashboardState  `json:"state"`
	Summary                 ProgressSummary `json:"summary"`
	Stats                   []DailyStat     `json:"stats"`
	UsingPlaceholderSummary bool            `json:"usingPlaceholderSummary"`
	UsingPlaceholderStats   bool            `json:"usingPlaceholderStats"`
	Cards                   []StatCard      `json:"cards"`
	OverallProgress         float64         `json:"overallProgress"`
	StreakProgress          float64         `json:"streakProgress"`
	CheckInProgress         float64         `json:"checkInProgress"`
	CheckIns                int             `json:"checkIns"`
	Chart                   StudyTimeChart  `json:"chart"`
}
