package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/match-explainer/internal/models"
	"github.com/stitts-dev/match-explainer/internal/services"
)

const validComparison = `{
	"team1": {"name": "Lions", "stats": {"goalsScored": 1.8, "goalsConceded": 0.9, "possession": 55, "shotsOnTarget": 6, "passingAccuracy": 84}, "winProbability": 52, "lambda": 1.75},
	"team2": {"name": "Tigers", "stats": {"goalsScored": 1.2, "goalsConceded": 1.4, "possession": 45, "shotsOnTarget": 4, "passingAccuracy": 78}, "winProbability": 48, "score": 1.1, "probability": 47},
	"favoriteTeam": "Lions",
	"winProbability": 52,
	"drawProbability": 21,
	"logisticRegression": {"team1Win": 50, "team2Win": 30, "draw": 20},
	"xgboost": {"team1Win": 57, "team2Win": 25, "draw": 18},
	"modelReliability": {"reliableModel": "XGBoost", "scenario": "balanced"}
}`

func TestValidateComparisonPayload(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
		noPayload     bool
		invalid       bool
	}{
		{name: "empty body", body: "", noPayload: true},
		{name: "whitespace body", body: "  \n ", noPayload: true},
		{name: "not json", body: "team1=Lions", noPayload: true},
		{name: "json array", body: `[1, 2]`, noPayload: true},
		{name: "json null", body: `null`, noPayload: true},
		{name: "all fields missing reports team1", body: `{}`, expectedField: "team1"},
		{
			name:          "team2 and favoriteTeam missing reports team2",
			body:          `{"team1": {"name": "A"}, "winProbability": 50}`,
			expectedField: "team2",
		},
		{
			name:          "null counts as missing",
			body:          `{"team1": {"name": "A"}, "team2": {"name": "B"}, "favoriteTeam": null, "winProbability": 50}`,
			expectedField: "favoriteTeam",
		},
		{
			name:          "winProbability missing",
			body:          `{"team1": {"name": "A"}, "team2": {"name": "B"}, "favoriteTeam": "A"}`,
			expectedField: "winProbability",
		},
		{
			name:          "wrong type",
			body:          `{"team1": {"name": "A"}, "team2": {"name": "B"}, "favoriteTeam": "A", "winProbability": "high"}`,
			expectedField: "winProbability",
			invalid:       true,
		},
		{
			name:          "team that is not an object",
			body:          `{"team1": "Lions", "team2": {"name": "B"}, "favoriteTeam": "A", "winProbability": 50}`,
			expectedField: "team1",
			invalid:       true,
		},
		{
			name:          "missing field reported before invalid one",
			body:          `{"team1": "Lions", "favoriteTeam": "A", "winProbability": 50}`,
			expectedField: "team2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := services.ValidateComparisonPayload([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, services.IsValidationError(err))

			if tt.noPayload {
				assert.ErrorIs(t, err, services.ErrNoPayload)
				return
			}

			if tt.invalid {
				var invalid *services.InvalidFieldError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.expectedField, invalid.Field)
				return
			}

			var missing *services.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.expectedField, missing.Field)
			assert.Equal(t, "missing required field: "+tt.expectedField, err.Error())
		})
	}
}

func TestValidateComparisonPayload_Valid(t *testing.T) {
	req, err := services.ValidateComparisonPayload([]byte(validComparison))
	require.NoError(t, err)

	assert.Equal(t, "Lions", req.Team1.Name)
	assert.Equal(t, "Tigers", req.Team2.Name)
	assert.Equal(t, "Lions", req.FavoriteTeam)
	assert.Equal(t, 52.0, req.WinProbability)
	require.NotNil(t, req.DrawProbability)
	assert.Equal(t, 21.0, req.DrawProbability.Float64())
	require.NotNil(t, req.XGBoost)
	assert.Equal(t, 57.0, req.XGBoost.Team1Win.Float64())
	assert.Equal(t, "XGBoost", req.RecommendedModel())
	assert.Equal(t, 84.0, req.Team1.Stats.PassingAccuracy.Float64())
	assert.Equal(t, 0.0, req.Team1.Stats.Fouls.Float64())
}

func TestValidateComparisonPayload_OptionalNulls(t *testing.T) {
	body := `{"team1": {"name": "A"}, "team2": {"name": "B"}, "favoriteTeam": "A", "winProbability": 50, "xgboost": null}`

	req, err := services.ValidateComparisonPayload([]byte(body))
	require.NoError(t, err)
	assert.Nil(t, req.XGBoost)
	assert.Nil(t, req.LogisticRegression)
	assert.Equal(t, "Poisson", req.RecommendedModel())
}

func TestValidateComparisonPayload_NumericStrings(t *testing.T) {
	// shape sent by the browser client: probabilities formatted with toFixed(2)
	body := `{
		"team1": {"name": "Lions", "stats": {"goalsScored": "1.80", "possession": 55}, "winProbability": "52.10", "lambda": 1.75},
		"team2": {"name": "Tigers", "stats": {"goalsScored": 1.2}, "winProbability": "26.40"},
		"favoriteTeam": "Lions",
		"winProbability": "52.10",
		"drawProbability": "21.50"
	}`

	req, err := services.ValidateComparisonPayload([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 52.1, req.WinProbability)
	require.NotNil(t, req.DrawProbability)
	assert.Equal(t, 21.5, req.DrawProbability.Float64())
	assert.Equal(t, 52.1, req.Team1.DisplayProbability())
	assert.Equal(t, 1.8, req.Team1.Stats.GoalsScored.Float64())
	assert.Equal(t, services.ProbabilityTriple{Poisson: 52.1}, services.DeriveModelProbabilities(req))
}

func TestValidateComparisonPayload_UnusableOptionalValues(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		check func(t *testing.T, req *models.MatchComparisonRequest)
	}{
		{
			name:  "numeric string inside model probabilities",
			extra: `"logisticRegression": {"team1Win": "40.1", "team2Win": 35, "draw": "x"}`,
			check: func(t *testing.T, req *models.MatchComparisonRequest) {
				require.NotNil(t, req.LogisticRegression)
				assert.Equal(t, 40.1, req.LogisticRegression.Team1Win.Float64())
				assert.Equal(t, 35.0, req.LogisticRegression.Team2Win.Float64())
				assert.Equal(t, 0.0, req.LogisticRegression.Draw.Float64())
			},
		},
		{
			name:  "model probabilities that are not an object",
			extra: `"xgboost": "none"`,
			check: func(t *testing.T, req *models.MatchComparisonRequest) {
				assert.Nil(t, req.XGBoost)
			},
		},
		{
			name:  "non-numeric draw probability",
			extra: `"drawProbability": "n/a"`,
			check: func(t *testing.T, req *models.MatchComparisonRequest) {
				assert.Nil(t, req.DrawProbability)
			},
		},
		{
			name:  "unreadable reliability",
			extra: `"modelReliability": {"reliableModel": 3}`,
			check: func(t *testing.T, req *models.MatchComparisonRequest) {
				assert.Nil(t, req.ModelReliability)
				assert.Equal(t, "Poisson", req.RecommendedModel())
			},
		},
		{
			name:  "stats that are not an object",
			extra: `"team2": {"name": "B", "stats": [1, 2]}`,
			check: func(t *testing.T, req *models.MatchComparisonRequest) {
				assert.Equal(t, "B", req.Team2.Name)
				assert.Equal(t, models.MatchStats{}, req.Team2.Stats)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"team1": {"name": "A"}, "favoriteTeam": "A", "winProbability": 50, ` + tt.extra
			if !strings.Contains(tt.extra, `"team2"`) {
				body += `, "team2": {"name": "B"}`
			}
			body += "}"

			req, err := services.ValidateComparisonPayload([]byte(body))
			require.NoError(t, err)
			tt.check(t, req)
		})
	}
}
