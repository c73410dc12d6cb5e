// Authenticated client for the StudySync backend.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"studysync/internal/auth"
	"studysync/internal/models"
	"studysync/internal/shared"
)

// StudyService executes authenticated API calls with automatic one-time
// recovery from an expired access token.
type StudyService struct {
	api    *APIClient
	tokens *auth.Manager
	logger *log.Logger
}

// NewStudyService creates a StudyService over the raw client and token manager.
func NewStudyService(api *APIClient, tokens *auth.Manager, logger *log.Logger) *StudyService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StudyService{api: api, tokens: tokens, logger: logger}
}

// call executes one logical API call.
//
// The retry policy in full: a 401 triggers exactly one refresh and one
// reissue of the same request with the new token, whose result is returned
// as-is. Anything else is returned unmodified on the first attempt. The
// payload is marshaled once so the retried request is byte-identical.
func (s *StudyService) call(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	token, err := s.tokens.AccessToken()
	if err != nil {
		return err
	}

	resp, err := s.api.do(ctx, method, path, token, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		s.logger.Debug("access token rejected, refreshing", "path", path)
		if token, err = s.tokens.Refresh(ctx); err != nil {
			return err
		}
		if resp, err = s.api.do(ctx, method, path, token, payload); err != nil {
			return err
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: request rejected after refresh", shared.ErrUnauthenticated)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Classes retrieves the user's enrolled classes.
func (s *StudyService) Classes(ctx context.Context) ([]models.Class, error) {
	var body struct {
		Classes []models.Class `json:"classes"`
	}
	if err := s.call(ctx, http.MethodGet, "/api/classes", nil, &body); err != nil {
		return nil, err
	}
	return body.Classes, nil
}

// TodayTasks retrieves all tasks scheduled for the current day, in server order.
func (s *StudyService) TodayTasks(ctx context.Context) ([]models.Task, error) {
	var body struct {
		Reviews []models.Task `json:"reviews"`
	}
	if err := s.call(ctx, http.MethodGet, "/api/reviews/today", nil, &body); err != nil {
		return nil, err
	}
	return body.Reviews, nil
}

// TasksInRange retrieves tasks whose scheduled date falls within the
// inclusive start..end range. Dates use [models.DateFormat].
func (s *StudyService) TasksInRange(ctx context.Context, start, end string) ([]models.Task, error) {
	query := url.Values{"start": {start}, "end": {end}}

	var body struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := s.call(ctx, http.MethodGet, "/api/tasks?"+query.Encode(), nil, &body); err != nil {
		return nil, err
	}
	return body.Tasks, nil
}

// StartReview begins a study session for the given chunk. taskType is
// optional; the server falls back to the scheduled type.
func (s *StudyService) StartReview(ctx context.Context, chunkID string, taskType models.TaskType) (*models.ReviewSession, error) {
	payload := map[string]string{"chunk_id": chunkID}
	if taskType != "" {
		payload["type"] = string(taskType)
	}

	var session models.ReviewSession
	if err := s.call(ctx, http.MethodPost, "/api/reviews/start", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteReview marks the task for the given chunk as completed. The server
// is the source of truth for completion state.
func (s *StudyService) CompleteReview(ctx context.Context, chunkID string) error {
	payload := map[string]string{"chunk_id": chunkID}
	return s.call(ctx, http.MethodPost, "/api/reviews/complete", payload, nil)
}

// SubmitQuiz submits a quiz answer and returns grading feedback.
func (s *StudyService) SubmitQuiz(ctx context.Context, chunkID, answer, question string) (*models.QuizFeedback, error) {
	payload := map[string]string{
		"chunk_id":      chunkID,
		"answer":        answer,
		"quiz_question": question,
	}

	var feedback models.QuizFeedback
	if err := s.call(ctx, http.MethodPost, "/api/quiz/submit", payload, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}
