package models

import "encoding/json"

// MatchComparisonRequest is the body of POST /get_explanation
type MatchComparisonRequest struct {
	Team1              TeamStats           `json:"team1"`
	Team2              TeamStats           `json:"team2"`
	FavoriteTeam       string              `json:"favoriteTeam"`
	WinProbability     float64             `json:"winProbability"`
	DrawProbability    *Number             `json:"drawProbability,omitempty"`
	LogisticRegression *ModelProbabilities `json:"logisticRegression,omitempty"`
	XGBoost            *ModelProbabilities `json:"xgboost,omitempty"`
	ModelReliability   *ModelReliability   `json:"modelReliability,omitempty"`
}

// TeamStats describes one side of the comparison
type TeamStats struct {
	Name           string     `json:"name"`
	Stats          MatchStats `json:"stats"`
	WinProbability *Number    `json:"winProbability,omitempty"`
	Score          *Number    `json:"score,omitempty"`
	Lambda         *Number    `json:"lambda,omitempty"` // Poisson expected goals
	Probability    *Number    `json:"probability,omitempty"`
}

// MatchStats holds per-match averages; absent values decode as 0
type MatchStats struct {
	GoalsScored     Number `json:"goalsScored"`
	GoalsConceded   Number `json:"goalsConceded"`
	Possession      Number `json:"possession"`
	ShotsOnTarget   Number `json:"shotsOnTarget"`
	PassingAccuracy Number `json:"passingAccuracy"`
	Fouls           Number `json:"fouls"`
	Corners         Number `json:"corners"`
	YellowCards     Number `json:"yellowCards"`
	RedCards        Number `json:"redCards"`
}

// UnmarshalJSON leaves every statistic at 0 when stats is not an object
func (s *MatchStats) UnmarshalJSON(raw []byte) error {
	type plain MatchStats
	var decoded plain
	if err := json.Unmarshal(raw, &decoded); err != nil {
		*s = MatchStats{}
		return nil
	}
	*s = MatchStats(decoded)
	return nil
}

// ModelProbabilities are the outcome percentages of one predictive model
type ModelProbabilities struct {
	Team1Win Number `json:"team1Win"`
	Team2Win Number `json:"team2Win"`
	Draw     Number `json:"draw"`
}

// ModelReliability names the model the client trusts most for this matchup
type ModelReliability struct {
	ReliableModel string `json:"reliableModel"`
	Scenario      string `json:"scenario"`
}

// DisplayScore returns score, falling back to lambda, then 0
func (t TeamStats) DisplayScore() float64 {
	if t.Score != nil {
		return t.Score.Float64()
	}
	if t.Lambda != nil {
		return t.Lambda.Float64()
	}
	return 0
}

// DisplayProbability returns probability, falling back to winProbability, then 0
func (t TeamStats) DisplayProbability() float64 {
	if t.Probability != nil {
		return t.Probability.Float64()
	}
	if t.WinProbability != nil {
		return t.WinProbability.Float64()
	}
	return 0
}

// RecommendedModel returns the trusted model name, "Poisson" when unspecified
func (r *MatchComparisonRequest) RecommendedModel() string {
	if r.ModelReliability == nil || r.ModelReliability.ReliableModel == "" {
		return "Poisson"
	}
	return r.ModelReliability.ReliableModel
}

// Scenario returns the detected matchup scenario, empty when unspecified
func (r *MatchComparisonRequest) Scenario() string {
	if r.ModelReliability == nil {
		return ""
	}
	return r.ModelReliability.Scenario
}
