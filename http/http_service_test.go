package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaosForCurio/Xieriee-Store/config"
	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

const (
	windowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8)"
	macUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	testJWTSecret       = "test-secret"
	testPublishPassword = "letmein"
)

type testService struct {
	cfg            config.Config
	client         storeapi.Client
	eventPublisher events.EventPublisher
}

func (s *testService) GetConfig() config.Config                  { return s.cfg }
func (s *testService) GetClient() storeapi.Client                { return s.client }
func (s *testService) GetEventPublisher() events.EventPublisher  { return s.eventPublisher }
func (s *testService) Shutdown()                                 {}

// newCatalogUpstream stubs the external API with count apps plus a detail and
// upload endpoint.
func newCatalogUpstream(t *testing.T, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/apps":
			apps := make([]storeapi.App, count)
			for i := range apps {
				apps[i] = storeapi.App{
					ID:        int64(i + 1),
					Title:     fmt.Sprintf("App %d", i+1),
					Developer: "Xieriee Studio",
					Category:  "Games",
					Rating:    "4.5",
					Downloads: "1M+",
				}
			}
			json.NewEncoder(w).Encode(apps)
		case r.Method == http.MethodGet && r.URL.Path == "/apps/42":
			json.NewEncoder(w).Encode(storeapi.App{
				ID:           42,
				Title:        "Pixel Studio Pro",
				Developer:    "Xieriee Studio",
				CategoryName: "Graphics",
				DownloadUrl:  "https://cdn.example.com/pixel-studio.exe",
				Platform:     "windows",
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/apps/"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "App not found"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/apps/upload":
			require.NoError(t, r.ParseMultipartForm(32<<20))
			if r.FormValue("title") == "Duplicate" {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": "Title already exists"}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 100}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func createTestHttpService(t *testing.T, upstreamUrl string) *echo.Echo {
	t.Helper()
	logger.Init("4")

	cfg, err := config.NewConfig(&config.AppConfig{
		JWTSecret:       testJWTSecret,
		PublishPassword: testPublishPassword,
		UpstreamApiUrl:  upstreamUrl,
	})
	require.NoError(t, err)

	svc := &testService{
		cfg:            cfg,
		client:         storeapi.NewClient(upstreamUrl),
		eventPublisher: events.NewEventPublisher(),
	}

	e := echo.New()
	httpSvc := NewHttpService(svc, svc.GetEventPublisher())
	require.NoError(t, httpSvc.RegisterSharedRoutes(e))
	return e
}

func sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	claims := &jwtCustomClaims{
		Permission: "publish",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: constants.SESSION_COOKIE_NAME, Value: token}
}

func TestListing_Home(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 12)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", windowsUA)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Recommended for you")
	assert.Contains(t, body, "New &amp; updated games")
	assert.Contains(t, body, "Suggested for you")
	assert.Contains(t, body, "Top rated apps")
	// hero carousel shows the first app
	assert.Contains(t, body, "App 1")
}

func TestListing_SearchResults(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]storeapi.App{
			{ID: 1, Title: "Alpha"},
			{ID: 2, Title: "Beta"},
			{ID: 3, Title: "AlphaBeta"},
			{ID: 4, Title: "Gamma"},
			{ID: 5, Title: "Delta"},
		})
	}))
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/?search=alpha", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 results found")
	assert.Contains(t, body, "Alpha")
	assert.Contains(t, body, "AlphaBeta")
	assert.NotContains(t, body, "Gamma")
}

func TestListing_CategoryFilter(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]storeapi.App{
			{ID: 1, Title: "Shooty", Category: "Games"},
			{ID: 2, Title: "Notes", Category: "Apps"},
		})
	}))
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/?category=Games", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 results found")
	assert.Contains(t, body, "Shooty")
	assert.NotContains(t, body, "Notes")
}

func TestListing_UpstreamFailureIsVisible(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "database unavailable"}`))
	}))
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// the failed load renders its own state, not an empty results page
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "load the store")
	assert.NotContains(t, rec.Body.String(), "0 results found")
}

func TestAppDetail(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/app/42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pixel Studio Pro")
	assert.Contains(t, body, `download="pixel-studio.exe"`)
}

func TestAppDetail_NotFound(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/app/999", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "App not found")
}

func TestApiApps_Passthrough(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 3)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/apps", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var apps []storeapi.App
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	assert.Len(t, apps, 3)
}

func TestUpload_RequiresSignIn(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.Header.Set("User-Agent", windowsUA)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/handler/sign-in?next=%2Fupload", rec.Header().Get(echo.HeaderLocation))
}

func TestUpload_SuppressedOnUnsupportedPlatform(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.Header.Set("User-Agent", macUA)
	req.AddCookie(sessionCookie(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestSignin_WrongPassword(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/handler/sign-in", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid password")
}

func TestSignin_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	form := url.Values{"password": {testPublishPassword}, "next": {"/upload"}}
	req := httptest.NewRequest(http.MethodPost, "/handler/sign-in", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/upload", rec.Header().Get(echo.HeaderLocation))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, constants.SESSION_COOKIE_NAME, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func multipartUpload(t *testing.T, filename, title string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("package bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.WriteField("developer", "Xieriee Studio"))
	require.NoError(t, writer.WriteField("description", "A tiny adventure."))
	require.NoError(t, writer.WriteField("category_id", "1"))
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	body, contentType := multipartUpload(t, "game.apk", "Pixel Quest")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("User-Agent", androidUA)
	req.AddCookie(sessionCookie(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "App successfully published to store!")
	// the success page schedules the modal close
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
}

func TestUpload_InvalidExtensionRejectedBeforeUpstream(t *testing.T) {
	t.Parallel()

	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	body, contentType := multipartUpload(t, "game.apk", "Pixel Quest")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("User-Agent", windowsUA)
	req.AddCookie(sessionCookie(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type. Please upload a .exe file.")
	assert.False(t, upstreamCalled)
}

func TestUpload_UpstreamRejectionKeepsForm(t *testing.T) {
	t.Parallel()

	upstream := newCatalogUpstream(t, 0)
	defer upstream.Close()
	e := createTestHttpService(t, upstream.URL)

	body, contentType := multipartUpload(t, "game.exe", "Duplicate")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("User-Agent", windowsUA)
	req.AddCookie(sessionCookie(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	responseBody := rec.Body.String()
	// the upstream message is surfaced verbatim and the draft is retained
	assert.Contains(t, responseBody, "Title already exists")
	assert.Contains(t, responseBody, `value="Duplicate"`)
	assert.Contains(t, responseBody, "A tiny adventure.")
}
