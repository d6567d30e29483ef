package model

// Task is a practice question from the task bank.
type Task struct {
	ID          string   `json:"id"`
	Grade       int      `json:"grade"`
	Topic       string   `json:"topic"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"` // empty for free-form answers
	Explanation string   `json:"explanation,omitempty"`
	XPReward    int      `json:"xp_reward"`
}

// SubmitResult is the backend's verdict on a submitted answer, including
// any progress the answer unlocked.
type SubmitResult struct {
	Correct       bool     `json:"correct"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	XPEarned      int      `json:"xp_earned"`
	NewXP         int      `json:"new_xp"`
	NewLevel      int      `json:"new_level"`
	LeveledUp     bool     `json:"leveled_up"`
	NewBadges     []string `json:"new_badges,omitempty"`
}

// Topic is a named task group within a grade.
type Topic struct {
	Name      string `json:"name"`
	TaskCount int    `json:"task_count"`
}
