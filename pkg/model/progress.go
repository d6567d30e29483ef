package model

// TopicProgress summarizes a student's work within one topic.
type TopicProgress struct {
	Grade     int     `json:"grade"`
	Topic     string  `json:"topic"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// ProgressOverview is the student's aggregate progress across topics.
type ProgressOverview struct {
	TotalAttempted int             `json:"total_attempted"`
	TotalCorrect   int             `json:"total_correct"`
	Topics         []TopicProgress `json:"topics"`
}

// Stats carries the derived gamification numbers for the dashboard.
type Stats struct {
	XP          int      `json:"xp"`
	Level       int      `json:"level"`
	XPToNext    int      `json:"xp_to_next"`
	Badges      []string `json:"badges"`
	Streak      int      `json:"streak"`
	SolvedToday int      `json:"solved_today"`
}

// StudentSummary is one row of the admin's student overview.
type StudentSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Grade     *int   `json:"grade,omitempty"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
	Attempted int    `json:"attempted"`
	Correct   int    `json:"correct"`
}

// AdminStats is the aggregate view over all students and tasks.
type AdminStats struct {
	StudentCount int `json:"student_count"`
	TaskCount    int `json:"task_count"`
	AnswerCount  int `json:"answer_count"`
	ActiveToday  int `json:"active_today"`
}
