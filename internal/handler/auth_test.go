package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviegram/moviegram/internal/config"
	"github.com/moviegram/moviegram/internal/database"
	"github.com/moviegram/moviegram/internal/middleware"
	"github.com/moviegram/moviegram/internal/repository"
)

func newAuthServer(t *testing.T) (*echo.Echo, *sql.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.NewSchema(db, "sqlite").Provision(context.Background()))

	cfg := config.Config{
		JWTSecret:      testSecret,
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     bcrypt.MinCost,
	}
	a := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	e := echo.New()
	e.POST("/v1/auth/register", a.Register)
	e.POST("/v1/auth/login", a.Login)
	e.POST("/v1/auth/refresh", a.Refresh)
	e.POST("/v1/auth/logout", a.Logout)
	e.GET("/v1/me", a.Me, middleware.JWTAuth(testSecret))
	return e, db
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const aliceReg = `{"username":"alice","age":25,"email":"a@x.com","password":"pw12345678","confirmPassword":"pw12345678","genres":["Drama"]}`

func TestRegisterLoginRoundTrip(t *testing.T) {
	e, _ := newAuthServer(t)

	rec := postJSON(e, "/v1/auth/register", aliceReg)
	require.Equal(t, http.StatusCreated, rec.Code)
	var reg struct {
		UserID   uint64 `json:"userId"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	require.NotZero(t, reg.UserID)
	require.Equal(t, "alice", reg.Username)

	rec = postJSON(e, "/v1/auth/login", `{"username":"alice","password":"pw12345678"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Age      int    `json:"age"`
		} `json:"user"`
		Access  struct{ Token string } `json:"access"`
		Refresh struct{ Token string } `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.Equal(t, "alice", login.User.Username)
	require.Equal(t, "a@x.com", login.User.Email)
	require.Equal(t, 25, login.User.Age)
	require.NotEmpty(t, login.Access.Token)
	require.NotEmpty(t, login.Refresh.Token)

	rec = postJSON(e, "/v1/auth/login", `{"username":"alice","password":"wrongpw"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	e, _ := newAuthServer(t)
	postJSON(e, "/v1/auth/register", aliceReg)

	unknownUser := postJSON(e, "/v1/auth/login", `{"username":"nobody","password":"pw12345678"}`)
	wrongPass := postJSON(e, "/v1/auth/login", `{"username":"alice","password":"wrongpw"}`)

	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.JSONEq(t, unknownUser.Body.String(), wrongPass.Body.String())
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	e, _ := newAuthServer(t)

	require.Equal(t, http.StatusCreated, postJSON(e, "/v1/auth/register", aliceReg).Code)

	// Same username, different email.
	rec := postJSON(e, "/v1/auth/register",
		`{"username":"alice","age":30,"email":"a2@x.com","password":"pw12345678","confirmPassword":"pw12345678","genres":["Crime"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Same email, different username.
	rec = postJSON(e, "/v1/auth/register",
		`{"username":"alicia","age":30,"email":"a@x.com","password":"pw12345678","confirmPassword":"pw12345678","genres":["Crime"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newAuthServer(t)

	cases := map[string]string{
		"password mismatch": `{"username":"bob","age":20,"email":"b@x.com","password":"pw1","confirmPassword":"pw2","genres":["Drama"]}`,
		"no genres":         `{"username":"bob","age":20,"email":"b@x.com","password":"pw1","confirmPassword":"pw1","genres":[]}`,
		"under minimum age": `{"username":"bob","age":12,"email":"b@x.com","password":"pw1","confirmPassword":"pw1","genres":["Drama"]}`,
		"missing username":  `{"age":20,"email":"b@x.com","password":"pw1","confirmPassword":"pw1","genres":["Drama"]}`,
	}
	for name, body := range cases {
		rec := postJSON(e, "/v1/auth/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	e, _ := newAuthServer(t)
	postJSON(e, "/v1/auth/register", aliceReg)

	rec := postJSON(e, "/v1/auth/login", `{"username":"alice","password":"pw12345678"}`)
	var login struct {
		Refresh struct{ Token string } `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = postJSON(e, "/v1/auth/refresh", `{"refresh_token":"`+login.Refresh.Token+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The old token was revoked by the rotation.
	rec = postJSON(e, "/v1/auth/refresh", `{"refresh_token":"`+login.Refresh.Token+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	e, _ := newAuthServer(t)
	postJSON(e, "/v1/auth/register", aliceReg)

	rec := postJSON(e, "/v1/auth/login", `{"username":"alice","password":"pw12345678"}`)
	var login struct {
		Refresh struct{ Token string } `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = postJSON(e, "/v1/auth/logout", `{"refresh_token":"`+login.Refresh.Token+`"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = postJSON(e, "/v1/auth/refresh", `{"refresh_token":"`+login.Refresh.Token+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfileWithGenres(t *testing.T) {
	e, _ := newAuthServer(t)
	postJSON(e, "/v1/auth/register",
		`{"username":"carol","age":28,"email":"c@x.com","password":"pw12345678","confirmPassword":"pw12345678","genres":["Thriller","Comedy"]}`)

	rec := postJSON(e, "/v1/auth/login", `{"username":"carol","password":"pw12345678"}`)
	var login struct {
		Access struct{ Token string } `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+login.Access.Token)
	out := httptest.NewRecorder()
	e.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	var me struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Genres []string `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &me))
	require.Equal(t, "carol", me.User.Username)
	require.Equal(t, []string{"Thriller", "Comedy"}, me.Genres)
}
