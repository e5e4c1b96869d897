package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/trisuaso/beambin/internal/model"
	"go.uber.org/zap"
)

// Service is the capability surface consumed from the external identity
// server: profile lookup, permission groups, and the audit trail. It is read
// (and appended to, for audits) but never managed here.
type Service interface {
	ProfileByToken(ctx context.Context, token string) (*model.Profile, error)
	GroupByID(ctx context.Context, id int) (*model.Group, error)
	Audit(ctx context.Context, actorID string, note string) error
}

type httpService struct {
	origin     string
	logger     *zap.Logger
	httpClient *http.Client
}

func New(origin string, logger *zap.Logger) Service {
	return &httpService{
		origin:     origin,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

type envelope struct {
	Ok      bool            `json:"ok"`
	Details string          `json:"details"`
	Payload json.RawMessage `json:"payload"`
}

func (s *httpService) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.origin+endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to request identity endpoint(%s): %s", endpoint, err.Error())
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK || !env.Ok {
		return fmt.Errorf("identity endpoint(%s) returned code(%d): %s", endpoint, resp.StatusCode, env.Details)
	}

	return json.Unmarshal(env.Payload, out)
}

func (s *httpService) ProfileByToken(ctx context.Context, token string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.get(ctx, "/api/v1/profiles/token/"+url.PathEscape(token), &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (s *httpService) GroupByID(ctx context.Context, id int) (*model.Group, error) {
	var group model.Group
	if err := s.get(ctx, fmt.Sprintf("/api/v1/groups/%d", id), &group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (s *httpService) Audit(ctx context.Context, actorID string, note string) error {
	requestBody, err := json.Marshal(map[string]string{
		"id":   actorID,
		"note": note,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.origin+"/api/v1/audits", bytes.NewReader(requestBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to write audit entry for actor(%s): %s", actorID, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("audit endpoint returned code(%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
