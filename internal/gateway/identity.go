package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ordrlab/orderflow/internal/models"
)

// IdentityClient resolves user identifiers against the identity service
type IdentityClient struct {
	client  *http.Client
	baseURL string
}

// NewIdentityClient creates new IdentityClient instance
func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
		baseURL: baseURL,
	}
}

type userResponse struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// GetUser resolves user profile by id
// 200 — user resolved
// 404 — user is not known to the identity service
func (c *IdentityClient) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	// GET /users/{id}
	url, err := url.JoinPath(c.baseURL, "users", strconv.FormatUint(userID, 10))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		userResp := userResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
			return nil, err
		}
		return &models.User{
			ID:    userResp.ID,
			Email: userResp.Email,
		}, nil
	case http.StatusNotFound:
		return nil, models.ErrUserNotFound
	default:
		return nil, fmt.Errorf("identity service: unexpected status %d", resp.StatusCode)
	}
}
