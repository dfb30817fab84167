package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripnote/tripnote-backend/internal/database"
	"github.com/tripnote/tripnote-backend/internal/models"
	"github.com/tripnote/tripnote-backend/internal/services"
	"github.com/tripnote/tripnote-backend/pkg/utils"
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// Signup handles user registration.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := utils.NormalizeUsername(req.Username)

	var existing string
	err := database.PostgresDB.QueryRowContext(r.Context(),
		"SELECT username FROM users WHERE username = $1", username).Scan(&existing)
	if err == nil {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	} else if err != sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	userID := uuid.New()
	now := time.Now()

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		INSERT INTO users (id, username, password_hash, status, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, username, hashedPassword, models.UserStatusActive, models.RoleUser, now, now)
	if err != nil {
		log.Printf("ERROR: Failed to insert user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Registration successful",
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   username,
			"created_at": now,
		},
	})
}

// Signin handles user login. The failure message never reveals whether the
// username exists.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	username := utils.NormalizeUsername(req.Username)

	var userID uuid.UUID
	var passwordHash, status, role string
	var createdAt time.Time
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, password_hash, status, role, created_at
		FROM users WHERE username = $1
	`, username).Scan(&userID, &passwordHash, &status, &role, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Username or password incorrect")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Username or password incorrect")
		return
	}

	if status != models.UserStatusActive {
		writeError(w, http.StatusForbidden, "Account is not active")
		return
	}

	token, err := services.CreateSession(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   username,
			"role":       role,
			"created_at": createdAt,
		},
	})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		services.InvalidateSession(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the authenticated user's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var userID uuid.UUID
	var status, role string
	var createdAt time.Time
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, status, role, created_at FROM users WHERE username = $1
	`, username).Scan(&userID, &status, &role, &createdAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   username,
			"status":     status,
			"role":       role,
			"created_at": createdAt,
		},
	})
}

// ChangePassword verifies the old password and stores a new hash. All
// sessions for the user are invalidated afterwards.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	username, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var passwordHash string
	err := database.PostgresDB.QueryRowContext(r.Context(),
		"SELECT password_hash FROM users WHERE username = $1", username).Scan(&passwordHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	valid, err := utils.VerifyPassword(req.OldPassword, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Old password incorrect")
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = database.PostgresDB.ExecContext(r.Context(),
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE username = $3",
		newHash, time.Now(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	services.InvalidateUserSessions(r.Context(), username)

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password changed"})
}
