package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/property-maintenance/internal/auth"
	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/store"
)

type apiFixture struct {
	router http.Handler
	store  *store.Store
	tokens map[models.Role]string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	s := store.New(
		store.WithTriageDelay(time.Hour),
		store.WithAdminContact("Property Manager", "manager@sunset.example.com"),
	)
	t.Cleanup(s.Close)

	authService := auth.NewService(testSecret, time.Hour)
	router := NewRouter(s, authService, new(MockUserCollection))

	tokens := make(map[models.Role]string)
	for _, role := range []models.Role{models.RoleAdmin, models.RoleManager, models.RoleTenant, models.RoleVendor} {
		user := &models.User{
			ID:       primitive.NewObjectID(),
			Username: string(role) + "-user",
			Role:     role,
		}
		token, err := authService.GenerateToken(user)
		require.NoError(t, err)
		tokens[role] = token
	}

	return &apiFixture{router: router, store: s, tokens: tokens}
}

func (f *apiFixture) do(t *testing.T, method, path string, role models.Role, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+f.tokens[role])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func apiDraft() models.RequestDraft {
	return models.RequestDraft{
		Property:    "Sunset Apartments",
		Unit:        "4B",
		Tenant:      models.TenantContact{Name: "Jordan Reyes", Phone: "555-0142", Email: "jordan@example.com"},
		Title:       "Leaking kitchen sink",
		Description: "The kitchen sink is leaking under the cabinet",
		Category:    models.CategoryPlumbing,
		Priority:    models.PriorityHigh,
	}
}

// createRequest posts a draft and returns the created request.
func (f *apiFixture) createRequest(t *testing.T, draft models.RequestDraft) models.MaintenanceRequest {
	t.Helper()

	w := f.do(t, "POST", "/api/requests", models.RoleTenant, draft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.MaintenanceRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRequestAPI_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, "GET", "/api/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestAPI_Create(t *testing.T) {
	f := newAPIFixture(t)

	created := f.createRequest(t, apiDraft())

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Equal(t, "Sunset Apartments", created.Property)
	require.Len(t, created.Timeline, 1)
	assert.Equal(t, "Request submitted", created.Timeline[0].Description)
}

func TestRequestAPI_CreateUnknownCategory(t *testing.T) {
	f := newAPIFixture(t)

	draft := apiDraft()
	draft.Category = "landscaping"
	w := f.do(t, "POST", "/api/requests", models.RoleTenant, draft)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRequestAPI_CreateMissingFields(t *testing.T) {
	f := newAPIFixture(t)

	draft := apiDraft()
	draft.Title = ""
	w := f.do(t, "POST", "/api/requests", models.RoleTenant, draft)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestAPI_ListFilters(t *testing.T) {
	f := newAPIFixture(t)

	f.createRequest(t, apiDraft())

	electrical := apiDraft()
	electrical.Title = "Outlet sparking"
	electrical.Category = models.CategoryElectrical
	electrical.Priority = models.PriorityCritical
	f.createRequest(t, electrical)

	var listing struct {
		Requests []models.MaintenanceRequest `json:"requests"`
		Count    int                         `json:"count"`
	}

	w := f.do(t, "GET", "/api/requests", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Count)
	// newest first
	assert.Equal(t, "Outlet sparking", listing.Requests[0].Title)

	w = f.do(t, "GET", "/api/requests?category=plumbing", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
	assert.Equal(t, models.CategoryPlumbing, listing.Requests[0].Category)

	w = f.do(t, "GET", "/api/requests?status=all&priority=critical", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
}

func TestRequestAPI_GetNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, "GET", "/api/requests/nope", models.RoleManager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestAPI_PatchInvalidTransition(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRequest(t, apiDraft())

	completed := models.StatusCompleted
	patch := models.RequestPatch{Status: &completed}
	w := f.do(t, "PATCH", "/api/requests/"+created.ID, models.RoleManager, patch)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestAPI_PatchForbiddenForTenant(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRequest(t, apiDraft())

	cancelled := models.StatusCancelled
	patch := models.RequestPatch{Status: &cancelled}
	w := f.do(t, "PATCH", "/api/requests/"+created.ID, models.RoleTenant, patch)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestAPI_AssignVendor(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRequest(t, apiDraft())

	t.Run("unknown vendor", func(t *testing.T) {
		w := f.do(t, "POST", fmt.Sprintf("/api/requests/%s/assign", created.ID), models.RoleAdmin,
			map[string]string{"vendor_id": "vendor-999"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("category mismatch", func(t *testing.T) {
		// vendor-003 is electrical, the request is plumbing
		w := f.do(t, "POST", fmt.Sprintf("/api/requests/%s/assign", created.ID), models.RoleAdmin,
			map[string]string{"vendor_id": "vendor-003"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("tenant cannot assign", func(t *testing.T) {
		w := f.do(t, "POST", fmt.Sprintf("/api/requests/%s/assign", created.ID), models.RoleTenant,
			map[string]string{"vendor_id": "vendor-001"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("successful assignment", func(t *testing.T) {
		w := f.do(t, "POST", fmt.Sprintf("/api/requests/%s/assign", created.ID), models.RoleAdmin,
			map[string]string{"vendor_id": "vendor-001"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated models.MaintenanceRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.StatusAssigned, updated.Status)
		assert.Equal(t, "vendor-001", updated.AssignedVendor)
	})
}

func TestRequestAPI_Rating(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRequest(t, apiDraft())

	ratePath := fmt.Sprintf("/api/requests/%s/rating", created.ID)

	t.Run("rejects rating before completion", func(t *testing.T) {
		w := f.do(t, "POST", ratePath, models.RoleTenant, map[string]interface{}{"rating": 5})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	// walk the request to completed through the store
	for _, status := range []models.RequestStatus{models.StatusAssigned, models.StatusInProgress, models.StatusCompleted} {
		st := status
		require.NoError(t, f.store.Update(created.ID, models.RequestPatch{Status: &st}))
	}

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		w := f.do(t, "POST", ratePath, models.RoleTenant, map[string]interface{}{"rating": 6})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("records rating and feedback", func(t *testing.T) {
		w := f.do(t, "POST", ratePath, models.RoleTenant,
			map[string]interface{}{"rating": 4, "feedback": "Fixed quickly"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated models.MaintenanceRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		require.NotNil(t, updated.Rating)
		assert.Equal(t, 4, *updated.Rating)
		assert.Equal(t, "Fixed quickly", updated.Feedback)
	})
}

func TestVendorAPI(t *testing.T) {
	f := newAPIFixture(t)

	var listing struct {
		Vendors []models.Vendor `json:"vendors"`
		Count   int             `json:"count"`
	}

	w := f.do(t, "GET", "/api/vendors", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, len(f.store.Vendors()), listing.Count)

	w = f.do(t, "GET", "/api/vendors/vendor-001", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vendor models.Vendor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vendor))
	assert.Equal(t, "vendor-001", vendor.ID)

	w = f.do(t, "GET", "/api/vendors/vendor-999", models.RoleManager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyticsAPI(t *testing.T) {
	f := newAPIFixture(t)

	f.createRequest(t, apiDraft())
	f.createRequest(t, apiDraft())

	w := f.do(t, "GET", "/api/analytics", models.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var analytics store.Analytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	assert.Equal(t, 2, analytics.TotalRequests)
	assert.Equal(t, 2, analytics.RecentRequests)
	assert.NotEmpty(t, analytics.ByCategory)
}

func TestNotificationAPI(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRequest(t, apiDraft())

	require.NoError(t, f.store.AssignVendor(created.ID, "vendor-001"))

	var listing struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}

	w := f.do(t, "GET", "/api/notifications", models.RoleTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.NotEmpty(t, listing.Notifications)
	assert.Equal(t, listing.Unread, len(listing.Notifications))

	first := listing.Notifications[0]
	w = f.do(t, "POST", "/api/notifications/"+first.ID+"/read", models.RoleTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, "GET", "/api/notifications", models.RoleTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, len(listing.Notifications)-1, listing.Unread)

	w = f.do(t, "POST", "/api/notifications/nope/read", models.RoleTenant, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
