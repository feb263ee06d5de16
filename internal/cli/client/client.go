// Package client is the gateway for all calls to the GymApp API. It attaches
// the session token, enforces a fixed request timeout and normalizes every
// failure into one of three error kinds.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soumyendra98/GymApp/internal/dashboard"
	"github.com/soumyendra98/GymApp/internal/models"
)

const requestTimeout = 30 * time.Second

// Client represents an HTTP client for the GymApp API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetToken sets the bearer token attached to subsequent requests. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do executes one request and decodes the data payload into out (when non-nil).
// Failures map onto the three error kinds; no retries are performed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return unknownf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return unknownf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connectivity failures land here
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		message := http.StatusText(resp.StatusCode)
		if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
			message = env.Message
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return unknownf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return unknownf("failed to decode response data: %w", err)
	}

	return nil
}

// AuthPayload is returned by signin/signup/onboard
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// validate rejects auth responses missing the user or token. Sessions are
// only ever established from a complete payload.
func (p *AuthPayload) validate() error {
	if p.User == nil || p.Token == "" {
		return unknownf("auth response missing user or token")
	}
	return nil
}

// SignupRequest registers a new member account
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// OnboardGymRequest creates a gym and its owner's admin account
type OnboardGymRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	GymName   string `json:"gymName"`
}

// Signin authenticates with email and password
func (c *Client) Signin(ctx context.Context, email, password string) (*AuthPayload, error) {
	body := map[string]string{"email": email, "password": password}
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/api/users/signin", nil, body, &payload); err != nil {
		return nil, err
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Signup registers a member account
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/api/users/signup", nil, req, &payload); err != nil {
		return nil, err
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// OnboardGym creates a gym with its owner's admin account
func (c *Client) OnboardGym(ctx context.Context, req OnboardGymRequest) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/api/gyms/onboard", nil, req, &payload); err != nil {
		return nil, err
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Me returns the current user's profile
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var data struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, unknownf("profile response missing user")
	}
	return data.User, nil
}

// Stats returns the role-shaped dashboard stats
func (c *Client) Stats(ctx context.Context, locationID string) (*dashboard.Stats, error) {
	query := url.Values{}
	if locationID != "" {
		query.Set("location", locationID)
	}
	var stats dashboard.Stats
	if err := c.do(ctx, http.MethodGet, "/api/users/stats", query, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ActivityFeed returns recent activity visible to the current user
func (c *Client) ActivityFeed(ctx context.Context) ([]models.Activity, error) {
	var data struct {
		Activity []models.Activity `json:"activity"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/activity", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Activity, nil
}

// GymProfile returns the current user's gym with its locations
func (c *Client) GymProfile(ctx context.Context) (*models.Gym, error) {
	var data struct {
		Gym *models.Gym `json:"gym"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gyms/profile", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Gym, nil
}

// GymTeam lists the gym's admins and instructors
func (c *Client) GymTeam(ctx context.Context) ([]models.User, error) {
	var data struct {
		Team []models.User `json:"team"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gyms/team", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Team, nil
}

// GymLocations lists the gym's locations
func (c *Client) GymLocations(ctx context.Context) ([]models.Location, error) {
	var data struct {
		Locations []models.Location `json:"locations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/gyms/locations", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Locations, nil
}

// Members lists the gym's members, optionally filtered
func (c *Client) Members(ctx context.Context, locationID, search string) ([]models.User, error) {
	query := url.Values{}
	if locationID != "" {
		query.Set("location", locationID)
	}
	if search != "" {
		query.Set("search", search)
	}
	var data struct {
		Members []models.User `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/members", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Members, nil
}

// Instructors lists the gym's instructors
func (c *Client) Instructors(ctx context.Context, search string) ([]models.User, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var data struct {
		Instructors []models.User `json:"instructors"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/instructors", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Instructors, nil
}

// Plans lists plans visible to the current user
func (c *Client) Plans(ctx context.Context, locationID string) ([]models.Plan, error) {
	query := url.Values{}
	if locationID != "" {
		query.Set("location", locationID)
	}
	var data struct {
		Plans []models.Plan `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Plans, nil
}

// Plan returns a single plan
func (c *Client) Plan(ctx context.Context, id string) (*models.Plan, error) {
	var data struct {
		Plan *models.Plan `json:"plan"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id), nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Plan, nil
}

// CreatePlanRequest creates a workout plan
type CreatePlanRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PriceCents   int64  `json:"priceCents"`
	ScheduleType string `json:"scheduleType"`
	ScheduleDays string `json:"scheduleDays,omitempty"`
	ScheduleTime string `json:"scheduleTime,omitempty"`
	DurationDays int    `json:"durationDays,omitempty"`
	InstructorID string `json:"instructorId,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
}

// CreatePlan creates a workout plan
func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) (*models.Plan, error) {
	var data struct {
		Plan *models.Plan `json:"plan"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/plans", nil, req, &data); err != nil {
		return nil, err
	}
	return data.Plan, nil
}

// Memberships lists memberships visible to the current user
func (c *Client) Memberships(ctx context.Context) ([]models.Membership, error) {
	var data struct {
		Memberships []models.Membership `json:"memberships"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/memberships", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Memberships, nil
}

// Membership returns a single membership with its plan and member
func (c *Client) Membership(ctx context.Context, id string) (*models.Membership, error) {
	var data struct {
		Membership *models.Membership `json:"membership"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/memberships/"+url.PathEscape(id), nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Membership, nil
}

// MembershipActivity returns the activity log for a membership
func (c *Client) MembershipActivity(ctx context.Context, id string) ([]models.Activity, error) {
	var data struct {
		Activity []models.Activity `json:"activity"`
	}
	path := fmt.Sprintf("/api/memberships/%s/activity", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Activity, nil
}

// MemberInvite is one member row in an invite request
type MemberInvite struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}

// InviteMembers invites members at a location
func (c *Client) InviteMembers(ctx context.Context, locationID string, members []MemberInvite) ([]models.User, error) {
	body := map[string]interface{}{"locationId": locationID, "members": members}
	var data struct {
		Members []models.User `json:"members"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/members/invite", nil, body, &data); err != nil {
		return nil, err
	}
	return data.Members, nil
}

// InviteInstructors invites instructors onto the gym's roster
func (c *Client) InviteInstructors(ctx context.Context, instructors []MemberInvite) ([]models.User, error) {
	body := map[string]interface{}{"instructors": instructors}
	var data struct {
		Instructors []models.User `json:"instructors"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/instructors/invite", nil, body, &data); err != nil {
		return nil, err
	}
	return data.Instructors, nil
}

// Enroll enrolls a member into a plan
func (c *Client) Enroll(ctx context.Context, memberID, planID string) (*models.Membership, error) {
	body := map[string]string{"memberId": memberID, "planId": planID}
	var data struct {
		Membership *models.Membership `json:"membership"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/memberships/enroll", nil, body, &data); err != nil {
		return nil, err
	}
	return data.Membership, nil
}
