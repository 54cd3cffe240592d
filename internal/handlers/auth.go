package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/httpx"
	"github.com/inkwell-dev/inkwell/internal/mailer"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/types"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type GoogleAuthRequest struct {
	Token string `json:"token"`
}

type AuthHandler struct {
	users  *store.UserStore
	otp    *auth.OTPService
	tokens *auth.TokenService
	google auth.TokenVerifier
	mail   mailer.Mailer
	log    *zap.Logger
}

func NewAuthHandler(
	users *store.UserStore,
	otp *auth.OTPService,
	tokens *auth.TokenService,
	google auth.TokenVerifier,
	mail mailer.Mailer,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:  users,
		otp:    otp,
		tokens: tokens,
		google: google,
		mail:   mail,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates or refreshes an unverified account and emails an OTP.
// A verified account with the same email is a conflict.
func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req SignupRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" || email == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Name and email are required")
		return
	}

	if !emailPattern.MatchString(email) {
		httpx.Fail(ctx, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	user, err := h.users.ByEmail(ctx.Request.Context(), email)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("failed to look up user", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
		return
	}

	switch {
	case user != nil && user.IsVerified:
		httpx.Fail(ctx, http.StatusBadRequest, "User with this email already exists")
		return
	case user != nil:
		if err := h.users.Update(ctx.Request.Context(), user.ID, map[string]any{"name": name}); err != nil {
			h.log.Error("failed to update user", zap.Error(err))
			httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
			return
		}
		user.Name = name
	default:
		user = &models.User{
			Name:         name,
			Email:        email,
			AuthProvider: models.ProviderEmail,
		}
		if err := h.users.Create(ctx.Request.Context(), user); err != nil {
			h.log.Error("failed to create user", zap.Error(err))
			httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
			return
		}
	}

	if !h.issueAndSendOTP(ctx, user) {
		return
	}

	httpx.OK(ctx, http.StatusOK,
		fmt.Sprintf("OTP sent successfully to %s. Please check your email and verify within 10 minutes.", email),
		gin.H{"email": email, "otpSent": true})
}

// Verify consumes a signup OTP, activates the account and returns a session.
func (h *AuthHandler) Verify(ctx *gin.Context) {
	var req VerifyRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	if email == "" || strings.TrimSpace(req.OTP) == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	user, ok := h.findUser(ctx, email)

	if !ok {
		return
	}

	if user.IsVerified {
		httpx.Fail(ctx, http.StatusBadRequest, "Account is already verified. Please login.")
		return
	}

	if !h.consumeOTP(ctx, user, req.OTP, true, "OTP") {
		return
	}

	token, err := h.tokens.Issue(user.ID)

	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
		return
	}

	httpx.OK(ctx, http.StatusOK, "Account verified successfully! Welcome to Inkwell.", gin.H{
		"token": token,
		"user":  types.NewUserResponse(user),
	})
}

// Login emails a fresh OTP to a verified account. The session is issued by
// VerifyLogin once the code comes back.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	if email == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Email is required")
		return
	}

	if !emailPattern.MatchString(email) {
		httpx.Fail(ctx, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	user, ok := h.findUser(ctx, email)

	if !ok {
		return
	}

	if !user.IsVerified {
		httpx.Fail(ctx, http.StatusForbidden, "Please verify your email address first. Check your inbox for the OTP.")
		return
	}

	if !h.issueAndSendOTP(ctx, user) {
		return
	}

	httpx.OK(ctx, http.StatusOK,
		fmt.Sprintf("Login OTP sent successfully to %s. Please check your email and verify within 10 minutes.", email),
		gin.H{"email": email, "otpSent": true})
}

// VerifyLogin consumes a login OTP and returns a session. Verification
// state is left untouched.
func (h *AuthHandler) VerifyLogin(ctx *gin.Context) {
	var req VerifyRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	if email == "" || strings.TrimSpace(req.OTP) == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	user, ok := h.findUser(ctx, email)

	if !ok {
		return
	}

	if !user.IsVerified {
		httpx.Fail(ctx, http.StatusForbidden, "Please verify your email address first.")
		return
	}

	if !h.consumeOTP(ctx, user, req.OTP, false, "login OTP") {
		return
	}

	token, err := h.tokens.Issue(user.ID)

	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
		return
	}

	httpx.OK(ctx, http.StatusOK, "Login successful! Welcome back.", gin.H{
		"token": token,
		"user":  types.NewUserResponse(user),
	})
}

// ResendOTP reissues the signup code for a still-unverified account.
func (h *AuthHandler) ResendOTP(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	if email == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Email is required")
		return
	}

	user, ok := h.findUser(ctx, email)

	if !ok {
		return
	}

	if user.IsVerified {
		httpx.Fail(ctx, http.StatusBadRequest, "Account is already verified. Please login.")
		return
	}

	if !h.issueAndSendOTP(ctx, user) {
		return
	}

	httpx.OK(ctx, http.StatusOK,
		fmt.Sprintf("New OTP sent successfully to %s. Please check your email.", email), nil)
}

// GoogleAuth signs a user in with a Google ID token, creating or linking
// the account as needed. Google accounts are pre-verified.
func (h *AuthHandler) GoogleAuth(ctx *gin.Context) {
	var req GoogleAuthRequest

	if err := ctx.BindJSON(&req); err != nil {
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" {
		httpx.Fail(ctx, http.StatusBadRequest, "Google token is required")
		return
	}

	claims, err := h.google.Verify(ctx.Request.Context(), req.Token)

	if err != nil {
		h.log.Warn("google token verification failed", zap.Error(err))
		httpx.Fail(ctx, http.StatusBadRequest, "Invalid Google token")
		return
	}

	if !claims.EmailVerified {
		httpx.Fail(ctx, http.StatusBadRequest, "Google email not verified")
		return
	}

	email := normalizeEmail(claims.Email)
	created := false

	user, err := h.users.ByEmailOrGoogleID(ctx.Request.Context(), email, claims.Subject)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("failed to look up user", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Google authentication failed. Please try again.")
		return
	}

	switch {
	case user == nil:
		name := claims.Name
		if name == "" {
			name = "Google User"
		}
		googleID := claims.Subject
		user = &models.User{
			Name:         name,
			Email:        email,
			GoogleID:     &googleID,
			AuthProvider: models.ProviderGoogle,
			IsVerified:   true,
		}
		if err := h.users.Create(ctx.Request.Context(), user); err != nil {
			h.log.Error("failed to create user", zap.Error(err))
			httpx.Fail(ctx, http.StatusInternalServerError, "Google authentication failed. Please try again.")
			return
		}
		created = true
	case user.AuthProvider == models.ProviderEmail && user.GoogleID == nil:
		// Existing email account signing in with Google for the first time:
		// link it and switch the provider.
		googleID := claims.Subject
		fields := map[string]any{
			"google_id":     googleID,
			"auth_provider": models.ProviderGoogle,
			"is_verified":   true,
		}
		if err := h.users.Update(ctx.Request.Context(), user.ID, fields); err != nil {
			h.log.Error("failed to link google account", zap.Error(err))
			httpx.Fail(ctx, http.StatusInternalServerError, "Google authentication failed. Please try again.")
			return
		}
		user.GoogleID = &googleID
		user.AuthProvider = models.ProviderGoogle
		user.IsVerified = true
	case user.AuthProvider == models.ProviderGoogle && (user.GoogleID == nil || *user.GoogleID != claims.Subject):
		httpx.Fail(ctx, http.StatusBadRequest, "This email is associated with a different Google account")
		return
	}

	token, err := h.tokens.Issue(user.ID)

	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		httpx.Fail(ctx, http.StatusInternalServerError, "Internal server error. Please try again.")
		return
	}

	message := "Login successful! Welcome back."

	if created {
		message = "Account created successfully with Google! Welcome to Inkwell."
	}

	httpx.OK(ctx, http.StatusOK, message, gin.H{
		"token": token,
		"user":  types.NewUserResponse(user),
	})
}

// Me returns the profile of the user resolved by the auth guard.
func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		httpx.Fail(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	createdAt := currentUser.CreatedAt

	httpx.OK(ctx, http.StatusOK, "User information retrieved successfully", gin.H{
		"user": types.UserResponse{
			ID:           currentUser.ID,
			Name:         currentUser.Name,
			Email:        currentUser.Email,
			AuthProvider: currentUser.AuthProvider,
			IsVerified:   currentUser.IsVerified,
			CreatedAt:    &createdAt,
		},
	})
}

// findUser loads a user by email, writing the 404/500 response itself when
// the lookup fails.
func (h *AuthHandler) findUser(ctx *gin.Context, email string) (*models.User, bool) {
	user, err := h.users.ByEmail(ctx.Request.Context(), email)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.RespondError(ctx, httpx.NotFound("User not found. Please sign up first."))
		} else {
			h.log.Error("failed to look up user", zap.Error(err))
			httpx.RespondError(ctx, httpx.Internal("Internal server error. Please try again.", err))
		}
		return nil, false
	}

	return user, true
}

// issueAndSendOTP stores a fresh code and emails it, writing the error
// response on failure. The caller only responds on success.
func (h *AuthHandler) issueAndSendOTP(ctx *gin.Context, user *models.User) bool {
	code, err := h.otp.Issue(ctx.Request.Context(), user)

	if err != nil {
		h.log.Error("failed to issue otp", zap.Error(err))
		httpx.RespondError(ctx, httpx.Internal("Internal server error. Please try again.", err))
		return false
	}

	if err := h.mail.SendOTP(ctx.Request.Context(), user.Email, user.Name, code); err != nil {
		h.log.Error("failed to send otp email", zap.Error(err))
		httpx.RespondError(ctx, httpx.Upstream("Failed to send OTP email. Please try again.", err))
		return false
	}

	return true
}

// consumeOTP verifies a submitted code, translating the OTP sentinels into
// client responses. kind is "OTP" or "login OTP" for the message wording.
func (h *AuthHandler) consumeOTP(ctx *gin.Context, user *models.User, submitted string, markVerified bool, kind string) bool {
	err := h.otp.Verify(ctx.Request.Context(), user, submitted, markVerified)

	switch {
	case err == nil:
		return true
	case errors.Is(err, auth.ErrNoOTPPending):
		httpx.RespondError(ctx, httpx.Validation(fmt.Sprintf("No OTP found. Please request a new %s.", kind)))
	case errors.Is(err, auth.ErrOTPExpired):
		httpx.RespondError(ctx, httpx.Validation(fmt.Sprintf("OTP has expired. Please request a new %s.", kind)))
	case errors.Is(err, auth.ErrOTPMismatch):
		httpx.RespondError(ctx, httpx.Validation("Invalid OTP. Please check and try again."))
	default:
		h.log.Error("failed to verify otp", zap.Error(err))
		httpx.RespondError(ctx, httpx.Internal("Internal server error. Please try again.", err))
	}

	return false
}
