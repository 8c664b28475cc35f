package userControllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	userControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/user"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

// recordingMailer captures the links the handlers would have emailed.
type recordingMailer struct {
	activationURL string
	resetURL      string
	failSend      bool
}

func (m *recordingMailer) SendActivationEmail(_ context.Context, _, _, activationURL string) error {
	if m.failSend {
		return assert.AnError
	}
	m.activationURL = activationURL
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, _, _, resetURL string) error {
	if m.failSend {
		return assert.AnError
	}
	m.resetURL = resetURL
	return nil
}

func setupUserTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *recordingMailer) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}))

	gen := tokens.New("test-secret")
	m := &recordingMailer{}

	r := gin.New()
	r.POST("/users/register", userControllers.RegisterUser(db, gen, m))
	r.GET("/users/activate/:uid/:token", userControllers.ActivateAccount(db, gen))
	r.POST("/users/login", userControllers.LoginUser(db))
	r.POST("/users/password-reset", userControllers.RequestPasswordReset(db, gen, m))
	r.POST("/users/password-reset/confirm", userControllers.ConfirmPasswordReset(db, gen))

	protected := r.Group("/users", middleware.ValidateToken)
	protected.GET("/profile", userControllers.GetUserProfile(db))
	protected.PUT("/profile", userControllers.UpdateUserProfile(db))
	protected.POST("/delete-account", userControllers.DeleteAccount(db))

	return r, db, m
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// linkPath pulls "/activate/<uid>/<token>/" style links apart.
func linkPath(t *testing.T, link string) (uid, token string) {
	parts := strings.Split(strings.Trim(link, "/"), "/")
	require.GreaterOrEqual(t, len(parts), 2)
	return parts[len(parts)-2], parts[len(parts)-1]
}

func TestRegistrationAndActivationFlow(t *testing.T) {
	r, db, m := setupUserTestRouter(t)

	register := map[string]string{
		"first_name": "Nour", "last_name": "Hassan",
		"email": "nour@example.com", "password": "s3cret-pass",
	}
	w := doJSON(r, http.MethodPost, "/users/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, m.activationURL)

	// The account exists but cannot log in yet.
	var user models.User
	require.NoError(t, db.Where("email = ?", "nour@example.com").First(&user).Error)
	assert.False(t, user.IsActive)

	login := map[string]string{"email": "nour@example.com", "password": "s3cret-pass"}
	w = doJSON(r, http.MethodPost, "/users/login", login, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Follow the emailed activation link.
	uid, token := linkPath(t, m.activationURL)
	w = doJSON(r, http.MethodGet, "/users/activate/"+uid+"/"+token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Re-using the same link fails: activation changed the account state.
	w = doJSON(r, http.MethodGet, "/users/activate/"+uid+"/"+token, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Now login succeeds and the token opens the profile.
	w = doJSON(r, http.MethodPost, "/users/login", login, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	w = doJSON(r, http.MethodGet, "/users/profile", nil, loginResp.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, _ := setupUserTestRouter(t)

	register := map[string]string{
		"first_name": "Nour", "last_name": "Hassan",
		"email": "dup@example.com", "password": "s3cret-pass",
	}
	w := doJSON(r, http.MethodPost, "/users/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/users/register", register, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestRegisterEmailFailureKeepsAccount(t *testing.T) {
	r, db, m := setupUserTestRouter(t)
	m.failSend = true

	register := map[string]string{
		"first_name": "Nour", "last_name": "Hassan",
		"email": "unlucky@example.com", "password": "s3cret-pass",
	}
	w := doJSON(r, http.MethodPost, "/users/register", register, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "unlucky@example.com").Count(&count)
	assert.Equal(t, int64(1), count, "a failed email must not roll back the account")
}

func TestPasswordResetFlow(t *testing.T) {
	r, db, m := setupUserTestRouter(t)

	user := models.User{Email: "reset@example.com", IsActive: true}
	require.NoError(t, user.SetPassword("old-password"))
	require.NoError(t, db.Create(&user).Error)

	w := doJSON(r, http.MethodPost, "/users/password-reset", map[string]string{"email": user.Email}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, m.resetURL)

	uid, token := linkPath(t, m.resetURL)
	confirm := map[string]string{"uid": uid, "token": token, "new_password": "brand-new-pass"}
	w = doJSON(r, http.MethodPost, "/users/password-reset/confirm", confirm, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.CheckPassword("brand-new-pass"))
	assert.False(t, fresh.CheckPassword("old-password"))

	// The reset link is single-use: the password hash it was bound to is gone.
	w = doJSON(r, http.MethodPost, "/users/password-reset/confirm", confirm, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	r, _, m := setupUserTestRouter(t)

	w := doJSON(r, http.MethodPost, "/users/password-reset", map[string]string{"email": "ghost@example.com"}, "")
	// Same response as for a real account; nothing is sent.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, m.resetURL)
}

func TestDeleteAccount(t *testing.T) {
	r, db, _ := setupUserTestRouter(t)

	user := models.User{Email: "leaving@example.com", IsActive: true}
	require.NoError(t, user.SetPassword("correct-pass"))
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.IssueAccessToken(user.ID)
	require.NoError(t, err)

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/users/delete-account", map[string]string{"password": "wrong"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var count int64
		db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("correct password deletes the account", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/users/delete-account", map[string]string{"password": "correct-pass"}, token)
		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestUpdateProfileValidation(t *testing.T) {
	r, db, _ := setupUserTestRouter(t)

	user := models.User{Email: "profile@example.com", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	token, err := middleware.IssueAccessToken(user.ID)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPut, "/users/profile", map[string]string{"mobile": "12345"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/users/profile", map[string]string{"mobile": "01012345678"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, "01012345678", fresh.Mobile)
}
