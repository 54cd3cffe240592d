package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/router"
	"github.com/inkwell-dev/inkwell/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeMailer struct {
	err      error
	sent     int
	lastTo   string
	lastName string
	lastCode string
}

func (m *fakeMailer) SendOTP(_ context.Context, to, name, code string) error {
	if m.err != nil {
		return m.err
	}

	m.sent++
	m.lastTo = to
	m.lastName = name
	m.lastCode = code

	return nil
}

type fakeVerifier struct {
	claims *auth.GoogleClaims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.GoogleClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type env struct {
	router *gin.Engine
	db     *gorm.DB
	users  *store.UserStore
	tokens *auth.TokenService
	mail   *fakeMailer
	google *fakeVerifier
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Note{}))

	users := store.NewUserStore(gdb)
	notes := store.NewNoteStore(gdb)
	tokens := auth.NewTokenService("test-secret")
	otp := auth.NewOTPService(users)
	mail := &fakeMailer{}
	google := &fakeVerifier{}
	log := zap.NewNop()

	r := router.New(router.Deps{
		Auth:        handlers.NewAuthHandler(users, otp, tokens, google, mail, log),
		Notes:       handlers.NewNotesHandler(notes, log),
		Guard:       middleware.NewAuthGuard(tokens, users),
		CORSOrigins: []string{"http://localhost:5173"},
	})

	return &env{
		router: r,
		db:     gdb,
		users:  users,
		tokens: tokens,
		mail:   mail,
		google: google,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *env) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
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

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func (e *env) data(t *testing.T, resp envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

// signupAndVerify runs the full signup flow and returns the session token.
func (e *env) signupAndVerify(t *testing.T, name, email string) string {
	t.Helper()

	rec, _ := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := e.do(t, http.MethodPost, "/api/auth/verify", "", gin.H{"email": email, "otp": e.mail.lastCode})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	e.data(t, resp, &data)
	require.NotEmpty(t, data.Token)

	return data.Token
}
