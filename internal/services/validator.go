package services

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/stitts-dev/match-explainer/internal/models"
)

var errNotNumeric = errors.New("not a number")

// RequiredComparisonFields are checked in this order; the first absent one is reported.
var RequiredComparisonFields = []string{"team1", "team2", "favoriteTeam", "winProbability"}

// ValidateComparisonPayload checks a raw /get_explanation body and decodes it.
// JSON null counts as absent. Numbers may arrive as numeric strings, and an
// optional value that cannot be read is treated as absent.
func ValidateComparisonPayload(raw []byte) (*models.MatchComparisonRequest, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	for _, name := range RequiredComparisonFields {
		value, ok := fields[name]
		if !ok || isNull(value) {
			return nil, &MissingFieldError{Field: name}
		}
	}

	var req models.MatchComparisonRequest
	if err := json.Unmarshal(fields["team1"], &req.Team1); err != nil {
		return nil, &InvalidFieldError{Field: "team1", Cause: err}
	}
	if err := json.Unmarshal(fields["team2"], &req.Team2); err != nil {
		return nil, &InvalidFieldError{Field: "team2", Cause: err}
	}
	if err := json.Unmarshal(fields["favoriteTeam"], &req.FavoriteTeam); err != nil {
		return nil, &InvalidFieldError{Field: "favoriteTeam", Cause: err}
	}
	winProbability, ok := models.ParseNumber(fields["winProbability"])
	if !ok {
		return nil, &InvalidFieldError{Field: "winProbability", Cause: errNotNumeric}
	}
	req.WinProbability = winProbability

	if value, ok := models.ParseNumber(fields["drawProbability"]); ok {
		draw := models.Number(value)
		req.DrawProbability = &draw
	}
	req.LogisticRegression = optionalObject[models.ModelProbabilities](fields["logisticRegression"])
	req.XGBoost = optionalObject[models.ModelProbabilities](fields["xgboost"])
	req.ModelReliability = optionalObject[models.ModelReliability](fields["modelReliability"])

	return &req, nil
}

// optionalObject decodes value into a fresh T, or returns nil when it is
// absent or unreadable
func optionalObject[T any](value json.RawMessage) *T {
	if len(value) == 0 || isNull(value) {
		return nil
	}
	var decoded T
	if err := json.Unmarshal(value, &decoded); err != nil {
		return nil
	}
	return &decoded
}

// decodeObject splits a JSON object body into its top-level members
func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNoPayload
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, ErrNoPayload
	}
	return fields, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
