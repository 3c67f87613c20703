package handlers

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"github.com/mowlid/portfolio-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newPasswordRouter() *gin.Engine {
	router := gin.New()
	authed := router.Group("/api/auth")
	authed.Use(AuthMiddleware())
	authed.POST("/change-password", ChangePassword)
	return router
}

// setupBreachedStub makes the breach corpus report every listed password
// as breached and everything else as safe.
func setupBreachedStub(t *testing.T, breached ...string) {
	t.Helper()

	suffixes := make([]string, 0, len(breached))
	for _, password := range breached {
		sum := sha1.Sum([]byte(password))
		suffixes = append(suffixes, strings.ToUpper(hex.EncodeToString(sum[:]))[5:])
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, suffix := range suffixes {
			fmt.Fprintf(w, "%s:42\r\n", suffix)
		}
		fmt.Fprint(w, "00AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA:3\r\n")
	}))
	t.Cleanup(server.Close)

	client := services.NewBreachClient()
	client.BaseURL = server.URL + "/range/"
	SetBreachClient(client)
	t.Cleanup(func() { SetBreachClient(services.NewBreachClient()) })
}

func changePassword(t *testing.T, router *gin.Engine, token, current, newPass, confirm string) *httptest.ResponseRecorder {
	t.Helper()
	return jsonRequest(t, router, http.MethodPost, "/api/auth/change-password", gin.H{
		"currentPassword": current,
		"newPassword":     newPass,
		"confirmPassword": confirm,
	}, token, nil)
}

func TestChangePasswordSuccess(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()
	token := testAuthToken(t, user)

	w := changePassword(t, router, token, "secret1", "brand-new-pass", "brand-new-pass")
	require.Equal(t, http.StatusOK, w.Code)

	// The stored hash now verifies the new password only
	var refreshed models.User
	require.NoError(t, database.DB.First(&refreshed, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(refreshed.PasswordHash), []byte("brand-new-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(refreshed.PasswordHash), []byte("secret1")))
	assert.NotNil(t, refreshed.PasswordChangedAt)

	// A history row was recorded for the new password
	var count int64
	database.DB.Model(&models.PasswordHistory{}).
		Where("user_id = ? AND password_hash = ?", user.ID, sha256Hex("brand-new-pass")).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestChangePasswordMissingFields(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All password fields are required", decodeBody(t, w)["error"])
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "not-my-password", "brand-new-pass", "brand-new-pass")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", decodeBody(t, w)["error"])
}

func TestChangePasswordTooShort(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "abc", "abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New password must be at least 6 characters", decodeBody(t, w)["error"])
}

func TestChangePasswordConfirmMismatch(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "brand-new-pass", "different-pass")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New passwords do not match", decodeBody(t, w)["error"])
}

func TestChangePasswordSameAsCurrent(t *testing.T) {
	setupTestDB(t)
	setupSafeBreachStub(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "secret1", "secret1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New password must be different from the current password", decodeBody(t, w)["error"])
}

func TestChangePasswordRejectsRecentlyUsed(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	// The candidate is also in the breach corpus; the history rule must
	// fire first, independent of the breach outcome
	setupBreachedStub(t, "reused-pass99")
	require.NoError(t, database.DB.Create(&models.PasswordHistory{
		UserID:       user.ID,
		PasswordHash: sha256Hex("reused-pass99"),
	}).Error)

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "reused-pass99", "reused-pass99")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password was used recently. Choose a password you have not used before.", decodeBody(t, w)["error"])
}

func TestChangePasswordRejectsBreached(t *testing.T) {
	setupTestDB(t)
	setupBreachedStub(t, "password123")
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "password123", "password123")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "found in data breaches")
}

func TestChangePasswordBreachCheckUnavailable(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "mowlid", "mowlid@example.com", "secret1", true)
	router := newPasswordRouter()

	// Corpus is unreachable: the change still goes through
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := services.NewBreachClient()
	client.BaseURL = server.URL + "/range/"
	SetBreachClient(client)
	t.Cleanup(func() { SetBreachClient(services.NewBreachClient()) })

	w := changePassword(t, router, testAuthToken(t, user), "secret1", "brand-new-pass", "brand-new-pass")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordRequiresAuth(t *testing.T) {
	setupTestDB(t)
	router := newPasswordRouter()

	w := changePassword(t, router, "", "secret1", "brand-new-pass", "brand-new-pass")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
