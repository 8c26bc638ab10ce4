package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/match-explainer/internal/metrics"
	"github.com/stitts-dev/match-explainer/internal/models"
	"github.com/stitts-dev/match-explainer/internal/store"
)

const (
	predictionKeyPrefix = "prediction_"
	predictionFileExt   = ".json"

	// DefaultHistoryLimit caps GET /get_historical
	DefaultHistoryLimit = 10
)

// Placeholders for summary fields a stored record does not carry
const (
	defaultTeam1Name      = "Team 1"
	defaultTeam2Name      = "Team 2"
	defaultFavoriteTeam   = "Unknown"
	defaultWinProbability = "N/A"
)

// PredictionService saves client prediction records and summarizes the newest ones
type PredictionService struct {
	store  store.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(s store.Store, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for record ids
func (s *PredictionService) WithClock(now func() time.Time) *PredictionService {
	s.now = now
	return s
}

// SavedRecord identifies a persisted prediction
type SavedRecord struct {
	ID       string
	Filename string
}

// Save stores raw verbatim, re-indented with two spaces, under
// prediction_<unix seconds>. Any JSON value is accepted except an empty or
// zero one. A save in the same second replaces the earlier one.
func (s *PredictionService) Save(ctx context.Context, raw []byte) (*SavedRecord, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var record interface{}
	if err := decoder.Decode(&record); err != nil || isEmptyRecord(record) {
		return nil, ErrNoPayload
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, ErrNoPayload
	}

	id := strconv.FormatInt(s.now().Unix(), 10)
	key := predictionKeyPrefix + id

	if err := s.store.Put(ctx, key, indented.Bytes()); err != nil {
		return nil, &PersistenceError{Op: "save", Cause: err}
	}

	metrics.PredictionsSaved.Inc()
	s.logger.WithField("id", id).Info("Prediction saved")

	return &SavedRecord{ID: id, Filename: key + predictionFileExt}, nil
}

// ListRecent returns up to limit summaries, newest first. Records that cannot
// be loaded or parsed are logged and skipped.
func (s *PredictionService) ListRecent(ctx context.Context, limit int) ([]models.PredictionSummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	keys, err := s.store.Keys(ctx, predictionKeyPrefix)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Cause: err}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	summaries := make([]models.PredictionSummary, 0, limit)
	for _, key := range keys {
		if len(summaries) == limit {
			break
		}

		summary, err := s.loadSummary(ctx, key)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"key": key,
			}).WithError(err).Error("Skipping unreadable prediction record")
			continue
		}
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

func (s *PredictionService) loadSummary(ctx context.Context, key string) (*models.PredictionSummary, error) {
	id := strings.TrimPrefix(key, predictionKeyPrefix)
	timestamp, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("key has no unix timestamp: %w", err)
	}

	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// a record that is valid JSON but not an object gets every default
	var saved models.SavedPrediction
	if err := json.Unmarshal(data, &saved); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field != "" {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
		saved = models.SavedPrediction{}
	}

	summary := &models.PredictionSummary{
		ID:             id,
		Team1:          defaultTeam1Name,
		Team2:          defaultTeam2Name,
		FavoriteTeam:   defaultFavoriteTeam,
		WinProbability: defaultWinProbability,
		Timestamp:      timestamp,
	}
	if saved.Team1 != nil && saved.Team1.Name != nil {
		summary.Team1 = *saved.Team1.Name
	}
	if saved.Team2 != nil && saved.Team2.Name != nil {
		summary.Team2 = *saved.Team2.Name
	}
	if saved.FavoriteTeam != nil {
		summary.FavoriteTeam = *saved.FavoriteTeam
	}
	if saved.WinProbability != nil {
		summary.WinProbability = saved.WinProbability
	}

	return summary, nil
}

func isEmptyRecord(record interface{}) bool {
	switch v := record.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	}
	return false
}
