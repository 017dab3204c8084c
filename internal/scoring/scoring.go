package scoring

import "time"

type Request struct {
	BasePoints           int
	ParMoves             int
	MovePenaltyPoints    int
	TimeGraceSeconds     int
	TimePenaltyPerSecond int

	Moves   int
	Elapsed time.Duration
}

type Result struct {
	BasePoints        int          `json:"base_points"`
	MovePenaltyPoints int          `json:"move_penalty_points,omitempty"`
	TimeGraceSeconds  int          `json:"time_grace_seconds,omitempty"`
	TimePenaltyPoints int          `json:"time_penalty_points,omitempty"`
	TotalPoints       int          `json:"total_points"`
	Breakdown         []ScoreDelta `json:"breakdown,omitempty"`
}

type ScoreDelta struct {
	Kind        string `json:"kind"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// Score charges moves beyond par and seconds beyond the grace period against
// the base points. The total never goes below zero.
func Score(req Request) Result {
	base := defaultInt(req.BasePoints, 1000)
	grace := defaultInt(req.TimeGraceSeconds, 60)
	timePenaltyPerSec := defaultInt(req.TimePenaltyPerSecond, 1)
	movePenalty := defaultInt(req.MovePenaltyPoints, 15)

	movePenaltyPoints := 0
	if extra := req.Moves - req.ParMoves; req.ParMoves > 0 && extra > 0 {
		movePenaltyPoints = extra * movePenalty
	}
	durationSec := int(max64(0, int64(req.Elapsed/time.Second)))
	timePenaltyPoints := 0
	if durationSec > grace {
		timePenaltyPoints = (durationSec - grace) * timePenaltyPerSec
	}

	total := base - movePenaltyPoints - timePenaltyPoints
	if total < 0 {
		total = 0
	}
	return Result{
		BasePoints:        base,
		MovePenaltyPoints: movePenaltyPoints,
		TimeGraceSeconds:  grace,
		TimePenaltyPoints: timePenaltyPoints,
		TotalPoints:       total,
		Breakdown: []ScoreDelta{
			{Kind: "moves", Points: -movePenaltyPoints, Description: "Moves over par"},
			{Kind: "time", Points: -timePenaltyPoints, Description: "Time penalty after grace"},
		},
	}
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
