package model

// Challenge is a daily or weekly task set with a bonus XP reward on
// completion.
type Challenge struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"` // "daily" or "weekly"
	Date      string   `json:"date"`
	TaskIDs   []string `json:"task_ids"`
	Tasks     []Task   `json:"tasks,omitempty"`
	BonusXP   int      `json:"bonus_xp"`
	Completed bool     `json:"completed"`
	Solved    int      `json:"solved"`
}

// ChallengeResult extends a submit verdict with challenge completion state.
type ChallengeResult struct {
	SubmitResult
	ChallengeComplete bool `json:"challenge_complete"`
	BonusXP           int  `json:"bonus_xp,omitempty"`
}
