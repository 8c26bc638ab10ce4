package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stitts-dev/match-explainer/internal/models"
)

// ExplanationSystemPrompt is sent as the system message on every attempt
const ExplanationSystemPrompt = "You are an expert sports analyst who gives detailed explanations of football match predictions based on statistics."

// ProbabilityTriple holds the favored outcome's probability under each model
type ProbabilityTriple struct {
	Poisson            float64
	LogisticRegression float64
	XGBoost            float64
}

// DeriveModelProbabilities picks the outcome the favorite team names.
// A favorite matching neither team is treated as a draw.
func DeriveModelProbabilities(req *models.MatchComparisonRequest) ProbabilityTriple {
	logistic := models.ModelProbabilities{}
	if req.LogisticRegression != nil {
		logistic = *req.LogisticRegression
	}
	xgb := models.ModelProbabilities{}
	if req.XGBoost != nil {
		xgb = *req.XGBoost
	}

	switch req.FavoriteTeam {
	case req.Team1.Name:
		return ProbabilityTriple{
			Poisson:            valueOrZero(req.Team1.WinProbability),
			LogisticRegression: logistic.Team1Win.Float64(),
			XGBoost:            xgb.Team1Win.Float64(),
		}
	case req.Team2.Name:
		return ProbabilityTriple{
			Poisson:            valueOrZero(req.Team2.WinProbability),
			LogisticRegression: logistic.Team2Win.Float64(),
			XGBoost:            xgb.Team2Win.Float64(),
		}
	default:
		return ProbabilityTriple{
			Poisson:            valueOrZero(req.DrawProbability),
			LogisticRegression: logistic.Draw.Float64(),
			XGBoost:            xgb.Draw.Float64(),
		}
	}
}

// BuildExplanationPrompt renders the user message for the completion request
func BuildExplanationPrompt(req *models.MatchComparisonRequest) string {
	probs := DeriveModelProbabilities(req)
	recommended := req.RecommendedModel()

	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Act as an expert sports analyst and explain in detail why %s has a %s%% probability of winning against their opponent, based on the following statistics:\n\n",
		req.FavoriteTeam, formatNumber(req.WinProbability)))

	writeTeamBlock(&prompt, "Team 1", req.Team1)
	writeTeamBlock(&prompt, "Team 2", req.Team2)

	prompt.WriteString("Computed score:\n")
	for _, team := range []models.TeamStats{req.Team1, req.Team2} {
		prompt.WriteString(fmt.Sprintf("- %s: %s points (%s%%)\n",
			team.Name, formatNumber(team.DisplayScore()), formatNumber(team.DisplayProbability())))
	}

	prompt.WriteString("\nResults from the predictive models:\n")
	prompt.WriteString(fmt.Sprintf("- Poisson model: %s%%\n", formatNumber(probs.Poisson)))
	prompt.WriteString(fmt.Sprintf("- Logistic regression model: %s%%\n", formatNumber(probs.LogisticRegression)))
	prompt.WriteString(fmt.Sprintf("- XGBoost model: %s%%\n\n", formatNumber(probs.XGBoost)))

	prompt.WriteString(fmt.Sprintf("Recommended model: %s\n", recommended))
	prompt.WriteString(fmt.Sprintf("Detected scenario: %s\n\n", req.Scenario()))

	prompt.WriteString(fmt.Sprintf("Please give a detailed, tailored explanation of why %s is more likely to win, based on the statistics provided. ", req.FavoriteTeam))
	prompt.WriteString("Compare the strengths and weaknesses of both teams. ")
	prompt.WriteString(fmt.Sprintf("Also explain why the %s model is the most reliable one for this specific scenario. ", recommended))
	prompt.WriteString("Use a professional but friendly tone, as if presenting on a sports show.\n")

	return prompt.String()
}

func writeTeamBlock(prompt *strings.Builder, label string, team models.TeamStats) {
	s := team.Stats
	prompt.WriteString(fmt.Sprintf("%s: %s\n", label, team.Name))
	prompt.WriteString(fmt.Sprintf("- Average goals scored: %s\n", formatNumber(s.GoalsScored.Float64())))
	prompt.WriteString(fmt.Sprintf("- Average goals conceded: %s\n", formatNumber(s.GoalsConceded.Float64())))
	prompt.WriteString(fmt.Sprintf("- Ball possession: %s%%\n", formatNumber(s.Possession.Float64())))
	prompt.WriteString(fmt.Sprintf("- Shots on target per match: %s\n", formatNumber(s.ShotsOnTarget.Float64())))
	prompt.WriteString(fmt.Sprintf("- Passing accuracy: %s%%\n", formatNumber(s.PassingAccuracy.Float64())))
	prompt.WriteString(fmt.Sprintf("- Fouls committed: %s\n", formatNumber(s.Fouls.Float64())))
	prompt.WriteString(fmt.Sprintf("- Average corners: %s\n", formatNumber(s.Corners.Float64())))
	prompt.WriteString(fmt.Sprintf("- Yellow cards: %s\n", formatNumber(s.YellowCards.Float64())))
	prompt.WriteString(fmt.Sprintf("- Red cards: %s\n\n", formatNumber(s.RedCards.Float64())))
}

// formatNumber prints the shortest exact form: 55 stays "55", 1.75 stays "1.75"
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func valueOrZero(v *models.Number) float64 {
	if v == nil {
		return 0
	}
	return v.Float64()
}
