package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ChaosForCurio/Xieriee-Store/browse"
	"github.com/ChaosForCurio/Xieriee-Store/catalog"
	"github.com/ChaosForCurio/Xieriee-Store/config"
	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/frontend"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
	"github.com/ChaosForCurio/Xieriee-Store/service"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
	"github.com/ChaosForCurio/Xieriee-Store/upload"
)

type jwtCustomClaims struct {
	Permission string `json:"permission,omitempty"`
	jwt.RegisteredClaims
}

type HttpService struct {
	cfg            config.Config
	client         storeapi.Client
	loader         *catalog.Loader
	sections       browse.SectioningStrategy
	eventPublisher events.EventPublisher
}

func NewHttpService(svc service.Service, eventPublisher events.EventPublisher) *HttpService {
	return &HttpService{
		cfg:            svc.GetConfig(),
		client:         svc.GetClient(),
		loader:         catalog.NewLoader(svc.GetClient()),
		sections:       browse.NewFixedSliceStrategy(),
		eventPublisher: eventPublisher,
	}
}

func (httpSvc *HttpService) RegisterSharedRoutes(e *echo.Echo) error {
	e.HideBanner = true

	renderer, err := frontend.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse storefront templates: %w", err)
	}
	e.Renderer = renderer

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogHost:      true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.HttpLogger.Info().
				Str("uri", values.URI).
				Int("status", values.Status).
				Str("remote_ip", values.RemoteIP).
				Str("user_agent", values.UserAgent).
				Str("host", values.Host).
				Str("request_id", values.RequestID).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	frontend.RegisterHandlers(e)

	// storefront pages; catalog and detail reads are not auth gated
	e.GET("/", httpSvc.listingHandler)
	e.GET("/app/:id", httpSvc.appDetailHandler)

	// thin JSON pass-throughs of the upstream catalog
	e.GET("/api/apps", httpSvc.apiAppsHandler)
	e.GET("/api/apps/:id", httpSvc.apiAppShowHandler)

	// allow one sign-in attempt per second
	signinRateLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(1))
	e.GET("/handler/sign-in", httpSvc.signinFormHandler)
	e.POST("/handler/sign-in", httpSvc.signinHandler, signinRateLimiter)
	e.GET("/logout", httpSvc.logoutHandler)

	// publishing requires a signed-in publisher; unauthenticated visitors are
	// redirected to the sign-in handler route
	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwtCustomClaims)
		},
		KeyFunc: func(token *jwt.Token) (interface{}, error) {
			return []byte(httpSvc.cfg.GetJWTSecret()), nil
		},
		TokenLookup: "cookie:" + constants.SESSION_COOKIE_NAME,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, "/handler/sign-in?next="+url.QueryEscape(c.Request().URL.RequestURI()))
		},
	}
	uploadGroup := e.Group("/upload")
	uploadGroup.Use(echojwt.WithConfig(jwtConfig))
	uploadGroup.GET("", httpSvc.uploadFormHandler)
	uploadGroup.POST("", httpSvc.uploadSubmitHandler)

	return nil
}

func (httpSvc *HttpService) basePage(c echo.Context, title string, query browse.Query) BasePage {
	platform := upload.DetectPlatform(c.Request().UserAgent())
	signedIn := httpSvc.signedIn(c)
	return BasePage{
		Title:      title,
		Query:      query,
		SignedIn:   signedIn,
		CanPublish: signedIn && platform != constants.PLATFORM_OTHER,
	}
}

func (httpSvc *HttpService) listingHandler(c echo.Context) error {
	query := browse.ParseQuery(c.QueryParams())

	// the fetch is scoped to the request context: a closed connection
	// cancels it instead of leaving a discarded in-flight request
	snapshot := httpSvc.loader.Load(c.Request().Context())
	view := browse.Select(snapshot, query, httpSvc.sections)

	title := "Xieriee Store"
	if view.Mode == browse.ModeResults {
		title = view.Heading
	}

	return c.Render(http.StatusOK, "listing", listingPage{
		BasePage:      httpSvc.basePage(c, title, query),
		View:          view,
		SkeletonCards: constants.SKELETON_CARD_COUNT,
	})
}

func (httpSvc *HttpService) appDetailHandler(c echo.Context) error {
	app, err := httpSvc.client.GetApp(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Logger.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to fetch app details")
		return c.Render(http.StatusNotFound, "detail", detailPage{
			BasePage: httpSvc.basePage(c, "App not found", browse.Query{}),
			NotFound: true,
		})
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		BasePage:        httpSvc.basePage(c, app.Title, browse.Query{}),
		App:             app,
		InstallFilename: installFilename(app),
	})
}

// installFilename derives the download attribute: the basename of the
// download URL, else the title with the platform's package extension.
func installFilename(app *storeapi.App) string {
	if app.DownloadUrl != "" {
		if u, err := url.Parse(app.DownloadUrl); err == nil {
			if name := path.Base(u.Path); name != "." && name != "/" {
				return name
			}
		}
	}
	return app.Title + upload.AllowedExtension(app.Platform)
}

func (httpSvc *HttpService) apiAppsHandler(c echo.Context) error {
	apps, err := httpSvc.client.ListApps(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, apps)
}

func (httpSvc *HttpService) apiAppShowHandler(c echo.Context) error {
	app, err := httpSvc.client.GetApp(c.Request().Context(), c.Param("id"))
	if err != nil {
		var apiError *storeapi.APIError
		status := http.StatusBadGateway
		if errors.As(err, &apiError) && apiError.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		return c.JSON(status, ErrorResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, app)
}

func (httpSvc *HttpService) signinFormHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "signin", signinPage{
		BasePage: httpSvc.basePage(c, "Sign in", browse.Query{}),
		Next:     sanitizeNext(c.QueryParam("next")),
	})
}

func (httpSvc *HttpService) signinHandler(c echo.Context) error {
	next := sanitizeNext(c.FormValue("next"))

	if !httpSvc.cfg.CheckPublishPassword(c.FormValue("password")) {
		return c.Render(http.StatusUnauthorized, "signin", signinPage{
			BasePage: httpSvc.basePage(c, "Sign in", browse.Query{}),
			Error:    "Invalid password",
			Next:     next,
		})
	}

	expiry := time.Now().Add(constants.PUBLISHER_SESSION_TTL)
	claims := &jwtCustomClaims{
		Permission: "publish",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(httpSvc.cfg.GetJWTSecret()))
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to sign session token")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SESSION_COOKIE_NAME,
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if next == "" {
		next = "/"
	}
	return c.Redirect(http.StatusFound, next)
}

func (httpSvc *HttpService) logoutHandler(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     constants.SESSION_COOKIE_NAME,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}

func (httpSvc *HttpService) uploadFormHandler(c echo.Context) error {
	platform := upload.DetectPlatform(c.Request().UserAgent())
	if platform == constants.PLATFORM_OTHER {
		// no upload path exists for unsupported platforms
		return c.Redirect(http.StatusFound, "/")
	}

	submitter, err := upload.NewSubmitter(httpSvc.client, httpSvc.eventPublisher, platform)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	return c.Render(http.StatusOK, "upload", httpSvc.uploadPage(c, submitter))
}

func (httpSvc *HttpService) uploadSubmitHandler(c echo.Context) error {
	platform := upload.DetectPlatform(c.Request().UserAgent())
	if platform == constants.PLATFORM_OTHER {
		return c.Redirect(http.StatusFound, "/")
	}

	submitter, err := upload.NewSubmitter(httpSvc.client, httpSvc.eventPublisher, platform)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	submitter.SetFields(
		c.FormValue("title"),
		c.FormValue("developer"),
		c.FormValue("description"),
		c.FormValue("category_id"),
	)

	fileHeader, err := c.FormFile("file")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: openErr.Error()})
		}
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: readErr.Error()})
		}
		submitter.SelectFile(fileHeader.Filename, data)
	}

	// a rejected extension or a missing file renders the form again with the
	// inline error; validation never contacts the upstream
	if submitter.Status().Type == upload.StatusError || !submitter.CanSubmit() {
		if submitter.Status().Type != upload.StatusError {
			logger.Logger.Debug().Msg("Publish submitted without a package file")
		}
		return c.Render(http.StatusBadRequest, "upload", httpSvc.uploadPage(c, submitter))
	}

	if err := submitter.Submit(c.Request().Context()); err != nil {
		status := http.StatusBadGateway
		if err == upload.ErrNoFile || err == upload.ErrMissingFields {
			status = http.StatusBadRequest
		}
		return c.Render(status, "upload", httpSvc.uploadPage(c, submitter))
	}

	return c.Render(http.StatusOK, "upload", httpSvc.uploadPage(c, submitter))
}

func (httpSvc *HttpService) uploadPage(c echo.Context, submitter *upload.Submitter) uploadPage {
	platformLabel := "Android"
	if submitter.Platform() == constants.PLATFORM_WINDOWS {
		platformLabel = "Windows"
	}
	draft := submitter.Draft()
	return uploadPage{
		BasePage:          httpSvc.basePage(c, "Publish", browse.Query{}),
		Draft:             draft,
		Status:            submitter.Status(),
		AllowedExt:        upload.AllowedExtension(submitter.Platform()),
		PlatformLabel:     platformLabel,
		FileSize:          int64(len(draft.File)),
		CanSubmit:         submitter.CanSubmit(),
		Submitting:        submitter.State() == upload.StateSubmitting,
		Closing:           submitter.State() == upload.StateSuccess,
		CloseDelaySeconds: int(constants.UPLOAD_SUCCESS_CLOSE_DELAY.Seconds()),
	}
}

// signedIn reports whether the request carries a valid publisher session. It
// only influences what the pages show; enforcement lives in the JWT
// middleware on the upload group.
func (httpSvc *HttpService) signedIn(c echo.Context) bool {
	cookie, err := c.Cookie(constants.SESSION_COOKIE_NAME)
	if err != nil || cookie.Value == "" {
		return false
	}
	token, err := jwt.ParseWithClaims(cookie.Value, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(httpSvc.cfg.GetJWTSecret()), nil
	})
	return err == nil && token.Valid
}

// sanitizeNext keeps post-sign-in redirects on this site.
func sanitizeNext(next string) string {
	if next == "" || next[0] != '/' || len(next) > 1 && next[1] == '/' {
		return ""
	}
	return next
}
