package models

// PredictionSummary is one row of GET /get_historical
type PredictionSummary struct {
	ID             string      `json:"id"`
	Team1          string      `json:"team1"`
	Team2          string      `json:"team2"`
	FavoriteTeam   string      `json:"favoriteTeam"`
	WinProbability interface{} `json:"winProbability"`
	Timestamp      int64       `json:"timestamp"`
}

// SavedPrediction is the subset of a stored record needed to summarize it.
// Records are stored verbatim, so every field is optional.
type SavedPrediction struct {
	Team1 *struct {
		Name *string `json:"name"`
	} `json:"team1"`
	Team2 *struct {
		Name *string `json:"name"`
	} `json:"team2"`
	FavoriteTeam   *string     `json:"favoriteTeam"`
	WinProbability interface{} `json:"winProbability"`
}

// ChartRequest is the body of POST /generate_chart
type ChartRequest struct {
	Team1 *ChartTeam `json:"team1"`
	Team2 *ChartTeam `json:"team2"`
}

// ChartTeam carries the statistics plotted for one team. Stats is a map so
// the renderer can tell an absent statistic from a zero one.
type ChartTeam struct {
	Name  string             `json:"name"`
	Stats map[string]float64 `json:"stats"`
}
