package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactsRouter() *gin.Engine {
	router := gin.New()
	router.POST("/api/contacts", CreateContact)

	admin := router.Group("/api/contacts")
	admin.Use(AuthMiddleware())
	admin.GET("", GetContacts)
	admin.PATCH("/:id/status", UpdateContactStatus)
	admin.DELETE("/:id", DeleteContact)
	return router
}

func TestCreateContact(t *testing.T) {
	setupTestDB(t)
	router := newContactsRouter()

	w := jsonRequest(t, router, http.MethodPost, "/api/contacts", gin.H{
		"name":    "Jane Customer",
		"email":   "jane@example.com",
		"message": "I would like to book the consulting call.",
	}, "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	contact := decodeBody(t, w)["contact"].(map[string]interface{})
	assert.Equal(t, "new", contact["status"])

	// Required fields are enforced
	w = jsonRequest(t, router, http.MethodPost, "/api/contacts", gin.H{
		"name": "No Message",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactStatusLifecycle(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	token := testAuthToken(t, user)
	router := newContactsRouter()

	contact := models.Contact{
		Name:    "Jane Customer",
		Email:   "jane@example.com",
		Message: "Hello",
		Status:  models.ContactNew,
	}
	require.NoError(t, database.DB.Create(&contact).Error)
	path := "/api/contacts/" + strconv.FormatInt(contact.ID, 10) + "/status"

	for _, status := range []string{"read", "replied", "archived"} {
		w := jsonRequest(t, router, http.MethodPatch, path, gin.H{"status": status}, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var refreshed models.Contact
	require.NoError(t, database.DB.First(&refreshed, contact.ID).Error)
	assert.Equal(t, models.ContactArchived, refreshed.Status)
	assert.NotNil(t, refreshed.UpdatedAt)

	w := jsonRequest(t, router, http.MethodPatch, path, gin.H{"status": "spam"}, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetContactsStatusFilter(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	token := testAuthToken(t, user)
	router := newContactsRouter()

	for _, status := range []models.ContactStatus{models.ContactNew, models.ContactNew, models.ContactArchived} {
		contact := models.Contact{Name: "Jane", Email: "jane@example.com", Message: "Hi", Status: status}
		require.NoError(t, database.DB.Create(&contact).Error)
	}

	w := jsonRequest(t, router, http.MethodGet, "/api/contacts?status=new", nil, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])

	// Public callers cannot read the inbox
	w = jsonRequest(t, router, http.MethodGet, "/api/contacts", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteContact(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	token := testAuthToken(t, user)
	router := newContactsRouter()

	contact := models.Contact{Name: "Jane", Email: "jane@example.com", Message: "Hi"}
	require.NoError(t, database.DB.Create(&contact).Error)

	w := jsonRequest(t, router, http.MethodDelete, "/api/contacts/"+strconv.FormatInt(contact.ID, 10), nil, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, http.MethodDelete, "/api/contacts/"+strconv.FormatInt(contact.ID, 10), nil, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
