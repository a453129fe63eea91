package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"careloop-backend-go/internal/core"
	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/models"
)

// testRouter wires handlers onto a bare engine with a stub identity instead
// of the Firebase middleware.
func testRouter(t *testing.T) (*gin.Engine, *core.EventService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	profileSwitcher := core.NewProfileSwitcher([]models.Profile{
		{ID: "family-a", DisplayName: "Family A", Role: models.RoleOwner},
		{ID: "family-b", DisplayName: "Family B", Role: models.RoleViewer},
	}, logger)
	searchService := core.NewSearchService(core.NewNoopAnalyticsSink(), logger)
	searchService.Initialize()
	eventService := core.NewEventService(db.NewMemoryEventRepository(), db.NewMemoryNotificationRepository(), logger)
	notifier := core.NewNotifier(eventService, nil, core.StaticDirectory{}, logger)

	profileHandler := NewProfileHandler(profileSwitcher)
	searchHandler := NewSearchHandler(searchService)
	eventHandler := NewEventHandler(eventService, notifier)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", "user-test")
		c.Next()
	})

	v1 := router.Group("/api/v1")
	v1.GET("/profiles", profileHandler.ListProfiles)
	v1.POST("/profiles/switch", profileHandler.SwitchProfile)
	v1.GET("/profiles/capabilities", profileHandler.GetCapabilities)
	v1.GET("/search", searchHandler.Search)
	v1.GET("/search/suggestions", searchHandler.Suggestions)
	v1.POST("/events", eventHandler.CreateEvent)
	v1.GET("/events", eventHandler.ListEvents)
	v1.GET("/events/notifications", eventHandler.ListNotifications)
	v1.PUT("/events/:eventId", eventHandler.UpdateEvent)
	v1.DELETE("/events/:eventId", eventHandler.DeleteEvent)

	return router, eventService
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProfilesEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProfilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Profiles, 2)
	assert.Equal(t, "family-a", resp.CurrentID)
}

func TestSwitchProfileEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles/switch", SwitchProfileRequest{ProfileID: "family-b"})
	require.Equal(t, http.StatusOK, w.Code)

	var current models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, "family-b", current.ID)
}

func TestSwitchProfileUnknownIDKeepsSelection(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles/switch", SwitchProfileRequest{ProfileID: "nope"})
	require.Equal(t, http.StatusOK, w.Code)

	var current models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, "family-a", current.ID, "response reports the selection actually in effect")
}

func TestSwitchProfileRequiresProfileID(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles/switch", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCapabilitiesEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/profiles/capabilities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var caps models.CapabilitySet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &caps))
	assert.True(t, caps.CanManageBilling, "first profile is an owner")
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search?q=evv", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "EVV Requirements by State", resp.Results[0].Title)
}

func TestSearchEndpointWithFilters(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search?types=guide&categories=Care+Planning", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, doc := range resp.Results {
		assert.Equal(t, models.KindGuide, doc.Kind)
		assert.Equal(t, "Care Planning", doc.Category)
	}
}

func TestSearchEndpointRejectsBadDate(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/search/suggestions?q=care", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SuggestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Suggestions, 5)
}

func TestCreateEventEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	start := time.Now().UTC().Add(24 * time.Hour)
	w := doJSON(t, router, http.MethodPost, "/api/v1/events", models.CareEvent{
		Title:     "Dentist",
		Type:      models.EventAppointment,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Location:  "Clinic",
		Client:    "client-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var event models.CareEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "user-test", event.CreatedBy)
	assert.Equal(t, models.StatusScheduled, event.Status)
}

func TestCreateEventEndpointValidationFailure(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events", models.CareEvent{
		Type: models.EventAppointment,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "title is required", resp.Details)
}

func TestUpdateEventEndpointNotFound(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/events/missing", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEventEndpointIsIdempotent(t *testing.T) {
	router, svc := testRouter(t)

	start := time.Now().UTC().Add(24 * time.Hour)
	event, err := svc.Create(models.CareEvent{
		Title:     "Dentist",
		Type:      models.EventAppointment,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Location:  "Clinic",
		Client:    "client-1",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodDelete, "/api/v1/events/"+event.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodDelete, "/api/v1/events/"+event.ID, nil).Code)
}

func TestListEventsEndpointFilters(t *testing.T) {
	router, svc := testRouter(t)

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.Create(models.CareEvent{
		Title:             "Shift",
		Type:              models.EventCareShift,
		StartDate:         start,
		EndDate:           start.Add(4 * time.Hour),
		Location:          "Home",
		AssignedCaregiver: "cg-1",
		Client:            "client-1",
		Notifications:     []string{models.Token30MinBefore},
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events?clientId=client-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []models.CareEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 1)

	w = doJSON(t, router, http.MethodGet, "/api/v1/events?clientId=other", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Empty(t, events)
}

func TestListNotificationsEndpoint(t *testing.T) {
	router, svc := testRouter(t)

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.Create(models.CareEvent{
		Title:             "Unavailable",
		Type:              models.EventBlockedDate,
		StartDate:         start,
		EndDate:           start.Add(8 * time.Hour),
		AssignedCaregiver: "cg-1",
		Client:            "client-1",
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notifications []models.CareEventNotification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
	require.NotEmpty(t, notifications)
	assert.Equal(t, models.NotificationAlert, notifications[0].Type)
}
