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

func newServicesRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/services", GetServices)

	admin := router.Group("/api/services")
	admin.Use(AuthMiddleware())
	admin.POST("", CreateService)
	admin.PUT("/:id", UpdateService)
	admin.DELETE("/:id", DeleteService)
	return router
}

func TestGetServicesHidesInactiveByDefault(t *testing.T) {
	setupTestDB(t)
	createTestService(t, "Web Development", "$100", true)
	createTestService(t, "Retired Service", "$50", false)
	router := newServicesRouter()

	w := jsonRequest(t, router, http.MethodGet, "/api/services", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	services := decodeBody(t, w)["services"].([]interface{})
	require.Len(t, services, 1)
	assert.Equal(t, "Web Development", services[0].(map[string]interface{})["name"])

	// The admin dashboard asks for everything
	w = jsonRequest(t, router, http.MethodGet, "/api/services?includeInactive=true", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["services"], 2)
}

func TestGetServicesCategoryFilter(t *testing.T) {
	setupTestDB(t)
	createTestService(t, "Web Development", "$100", true)
	svc := models.Service{Name: "Logo Design", Price: "$40", Category: "Design", IsActive: true}
	require.NoError(t, database.DB.Create(&svc).Error)
	router := newServicesRouter()

	w := jsonRequest(t, router, http.MethodGet, "/api/services?category=Design", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	services := decodeBody(t, w)["services"].([]interface{})
	require.Len(t, services, 1)
	assert.Equal(t, "Logo Design", services[0].(map[string]interface{})["name"])
}

func TestServiceMutationsRequireAuth(t *testing.T) {
	setupTestDB(t)
	router := newServicesRouter()

	w := jsonRequest(t, router, http.MethodPost, "/api/services", gin.H{"name": "X", "price": "$1"}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = jsonRequest(t, router, http.MethodDelete, "/api/services/1", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUpdateDeleteService(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	token := testAuthToken(t, user)
	router := newServicesRouter()

	w := jsonRequest(t, router, http.MethodPost, "/api/services", gin.H{
		"name":        "API Integration",
		"description": "Third-party API wiring",
		"price":       "$120",
		"category":    "Development",
	}, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)["service"].(map[string]interface{})
	assert.Equal(t, true, created["isActive"])
	id := int64(created["id"].(float64))
	path := "/api/services/" + strconv.FormatInt(id, 10)

	inactive := false
	w = jsonRequest(t, router, http.MethodPut, path, gin.H{
		"name":     "API Integration",
		"price":    "$150",
		"isActive": inactive,
	}, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed models.Service
	require.NoError(t, database.DB.First(&refreshed, id).Error)
	assert.Equal(t, "$150", refreshed.Price)
	assert.False(t, refreshed.IsActive)

	w = jsonRequest(t, router, http.MethodDelete, path, nil, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, http.MethodDelete, path, nil, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
