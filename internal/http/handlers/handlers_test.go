package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sakshiot4/UrbanWatch-plus/internal/http/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	r := newTestRouter()
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/login", handler.Login)

	req, _ := http.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintHandler_Submit_InvalidBody(t *testing.T) {
	r := newTestRouter()
	handler := &ComplaintHandler{complaints: nil, auth: nil}
	r.POST("/complaints", handler.Submit)

	req, _ := http.NewRequest("POST", "/complaints", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintHandler_Submit_Unauthorized(t *testing.T) {
	r := newTestRouter()
	handler := &ComplaintHandler{complaints: nil, auth: nil}
	r.POST("/complaints", handler.Submit)

	body := `{"title":"Pothole","description":"A deep pothole near the bus stop.","category":"road"}`
	req, _ := http.NewRequest("POST", "/complaints", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOfficerHandler_Claim_InvalidComplaintID(t *testing.T) {
	r := newTestRouter()
	handler := &OfficerHandler{complaints: nil, contractors: nil, auth: nil}
	r.POST("/officer/complaints/:id/claim", handler.Claim)

	req, _ := http.NewRequest("POST", "/officer/complaints/not-a-uuid/claim", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOfficerHandler_AssignContractor_BadContractorID(t *testing.T) {
	r := newTestRouter()
	handler := &OfficerHandler{complaints: nil, contractors: nil, auth: nil}
	r.POST("/officer/complaints/:id/assign", handler.AssignContractor)

	body := `{"contractor_id":"not-a-uuid"}`
	req, _ := http.NewRequest("POST", "/officer/complaints/"+uuid.NewString()+"/assign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandler_MarkAsRead_InvalidID(t *testing.T) {
	r := newTestRouter()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	handler := &NotificationHandler{notifications: nil}
	r.PUT("/notifications/:id/read", handler.MarkAsRead)

	req, _ := http.NewRequest("PUT", "/notifications/not-a-uuid/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_UploadPhoto_Unauthorized(t *testing.T) {
	r := newTestRouter()
	handler := &MediaHandler{storage: nil}
	r.POST("/media/photos", handler.UploadPhoto)

	req, _ := http.NewRequest("POST", "/media/photos", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_Handle_MissingToken(t *testing.T) {
	r := newTestRouter()
	handler := &WSHandler{hub: nil, tokenManager: nil}
	r.GET("/ws", handler.Handle)

	req, _ := http.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
