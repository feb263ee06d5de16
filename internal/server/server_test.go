package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/config"
	"github.com/soumyendra98/GymApp/internal/models"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	cfg.Database.URL = filepath.Join(t.TempDir(), "test.sqlite")
	cfg.Redis.Address = "localhost:6379"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func onboardTestGym(t *testing.T, srv *Server) (adminToken string) {
	t.Helper()

	w, resp := doJSON(t, srv, http.MethodPost, "/api/gyms/onboard", "", map[string]string{
		"firstName": "Ana",
		"lastName":  "Silva",
		"email":     "owner@gym.test",
		"phone":     "555-0100",
		"password":  "supersecret",
		"gymName":   "Iron Temple",
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.NotEmpty(t, payload.Token)
	require.Equal(t, models.RoleAdmin, payload.User.Role)
	return payload.Token
}

func signinAs(t *testing.T, srv *Server, email, password string) string {
	t.Helper()

	w, resp := doJSON(t, srv, http.MethodPost, "/api/users/signin", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	return payload.Token
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "online")
}

func TestOnboardAndSignin(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	token := signinAs(t, srv, "owner@gym.test", "supersecret")

	w, resp := doJSON(t, srv, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		User *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, "owner@gym.test", data.User.Email)
}

func TestSignin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/users/signin", "", map[string]string{
		"email": "owner@gym.test", "password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, resp.Success)
	require.Equal(t, "Invalid email or password", resp.Message)
}

func TestSignup_CreatesMember(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/users/signup", "", map[string]string{
		"firstName": "Cara",
		"lastName":  "Dune",
		"email":     "cara@gym.test",
		"password":  "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Equal(t, models.RoleMember, payload.User.Role)
	require.NotEmpty(t, payload.User.GymID, "member should attach to the only gym")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/users/signup", "", map[string]string{
		"firstName": "Other",
		"lastName":  "Owner",
		"email":     "owner@gym.test",
		"password":  "supersecret",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "An account with this email already exists", resp.Message)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	w, resp := doJSON(t, srv, http.MethodGet, "/api/users/me", "", nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, resp.Success)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	w, _ := doJSON(t, srv, http.MethodGet, "/api/users/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles_MemberBlockedFromAdminRoutes(t *testing.T) {
	srv := newTestServer(t)
	onboardTestGym(t, srv)

	doJSON(t, srv, http.MethodPost, "/api/users/signup", "", map[string]string{
		"firstName": "Cara", "lastName": "Dune", "email": "cara@gym.test", "password": "supersecret",
	})
	memberToken := signinAs(t, srv, "cara@gym.test", "supersecret")

	for _, path := range []string{"/api/members", "/api/instructors", "/api/gyms/team"} {
		w, resp := doJSON(t, srv, http.MethodGet, path, memberToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code, path)
		require.Equal(t, "You don't have access to this resource", resp.Message)
	}
}

func TestPlanLifecycle(t *testing.T) {
	srv := newTestServer(t)
	adminToken := onboardTestGym(t, srv)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/plans", adminToken, map[string]interface{}{
		"name":         "Strength 101",
		"priceCents":   5000,
		"scheduleType": "RECURRING",
		"scheduleDays": "MON,WED,FRI",
		"scheduleTime": "18:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	var created struct {
		Plan *models.Plan `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.NotEmpty(t, created.Plan.ID)

	w, resp = doJSON(t, srv, http.MethodGet, "/api/plans", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Plans []models.Plan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	require.Len(t, listed.Plans, 1)
	require.Equal(t, "Strength 101", listed.Plans[0].Name)

	w, resp = doJSON(t, srv, http.MethodGet, "/api/plans/"+created.Plan.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestEnrollMembership(t *testing.T) {
	srv := newTestServer(t)
	adminToken := onboardTestGym(t, srv)

	doJSON(t, srv, http.MethodPost, "/api/users/signup", "", map[string]string{
		"firstName": "Cara", "lastName": "Dune", "email": "cara@gym.test", "password": "supersecret",
	})

	var member models.User
	require.NoError(t, srv.GetDB().Where("email = ?", "cara@gym.test").First(&member).Error)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/plans", adminToken, map[string]interface{}{
		"name": "Yoga", "priceCents": 3000, "scheduleType": "NON_RECURRING", "durationDays": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	var created struct {
		Plan *models.Plan `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	enrollBody := map[string]string{"memberId": member.ID, "planId": created.Plan.ID}
	w, resp = doJSON(t, srv, http.MethodPost, "/api/memberships/enroll", adminToken, enrollBody)
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	var enrolled struct {
		Membership *models.Membership `json:"membership"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &enrolled))
	require.Equal(t, models.MembershipActive, enrolled.Membership.Status)
	require.Equal(t, 60, int(enrolled.Membership.EndDate.Sub(enrolled.Membership.StartDate).Hours()/24))

	// A second active membership on the same plan is rejected
	w, resp = doJSON(t, srv, http.MethodPost, "/api/memberships/enroll", adminToken, enrollBody)
	require.Equal(t, http.StatusConflict, w.Code)
	require.False(t, resp.Success)

	// The member sees their own membership
	memberToken := signinAs(t, srv, "cara@gym.test", "supersecret")
	w, resp = doJSON(t, srv, http.MethodGet, "/api/memberships", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Memberships []models.Membership `json:"memberships"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Memberships, 1)
}

func TestInviteMembers(t *testing.T) {
	srv := newTestServer(t)
	adminToken := onboardTestGym(t, srv)

	// Find the default location created during onboarding
	var location models.Location
	require.NoError(t, srv.GetDB().First(&location).Error)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/members/invite", adminToken, map[string]interface{}{
		"locationId": location.ID,
		"members": []map[string]string{
			{"firstName": "Dee", "lastName": "Nova", "email": "dee@gym.test"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var invited struct {
		Members []models.User `json:"members"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &invited))
	require.Len(t, invited.Members, 1)
	require.Equal(t, models.UserStatusInvited, invited.Members[0].Status)

	// Invited users have no password yet; signin must not succeed
	w, _ = doJSON(t, srv, http.MethodPost, "/api/users/signin", "", map[string]string{
		"email": "dee@gym.test", "password": "whatever123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInstructorSeesOnlyOwnPlans(t *testing.T) {
	srv := newTestServer(t)
	adminToken := onboardTestGym(t, srv)

	var location models.Location
	require.NoError(t, srv.GetDB().First(&location).Error)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/instructors/invite", adminToken, map[string]interface{}{
		"instructors": []map[string]string{
			{"firstName": "Ben", "lastName": "Kim", "email": "ben@gym.test"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var invited struct {
		Instructors []models.User `json:"instructors"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &invited))
	instructorID := invited.Instructors[0].ID

	// One plan assigned to the instructor, one unassigned
	for i, body := range []map[string]interface{}{
		{"name": "Spin", "priceCents": 2000, "scheduleType": "RECURRING", "instructorId": instructorID},
		{"name": "Pilates", "priceCents": 2500, "scheduleType": "RECURRING"},
	} {
		w, resp = doJSON(t, srv, http.MethodPost, "/api/plans", adminToken, body)
		require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("plan %d: %s", i, resp.Message))
	}

	// Give the invited instructor a usable password via first signin activation
	require.NoError(t, srv.GetDB().Model(&models.User{}).
		Where("id = ?", instructorID).
		Update("password_hash", mustHash(t, "supersecret")).Error)
	instructorToken := signinAs(t, srv, "ben@gym.test", "supersecret")

	w, resp = doJSON(t, srv, http.MethodGet, "/api/plans", instructorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Plans []models.Plan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	require.Len(t, listed.Plans, 1)
	require.Equal(t, "Spin", listed.Plans[0].Name)

	// Admin sees both
	w, resp = doJSON(t, srv, http.MethodGet, "/api/plans", adminToken, nil)
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	require.Len(t, listed.Plans, 2)
}
