package middleware_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/http/server/middleware"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

func newApp(t *testing.T, hideDetails bool, routes func(r fiber.Router)) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))
	cfg := server.Config{HideErrorDetails: hideDetails, HandleTimeout: time.Second}

	srv := server.NewHTTPServer(cfg, log, middleware.Default(cfg, log, "caseflow", "test"))
	srv.RegisterRouter(routes)
	return srv.App(), logs
}

func errorBody(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok, string(raw))
	return resp.StatusCode, errBody
}

func TestErrorMapping(t *testing.T) {
	app, _ := newApp(t, false, func(r fiber.Router) {
		r.Get("/conflict", func(*fiber.Ctx) error {
			return errx.New("taken", errx.WithCode("TAKEN"), errx.WithType(errx.T_Conflict))
		})
		r.Get("/forbidden", func(*fiber.Ctx) error {
			return errx.New("no", errx.WithCode("NO"), errx.WithType(errx.T_Forbidden))
		})
		r.Get("/plain", func(*fiber.Ctx) error {
			return io.ErrUnexpectedEOF
		})
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{path: "/conflict", wantStatus: fiber.StatusConflict, wantCode: "TAKEN"},
		{path: "/forbidden", wantStatus: fiber.StatusForbidden, wantCode: "NO"},
		{path: "/plain", wantStatus: fiber.StatusInternalServerError},
		{path: "/missing", wantStatus: fiber.StatusNotFound, wantCode: "ROUTER_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			status, body := errorBody(t, app, tc.path)

			assert.Equal(t, tc.wantStatus, status)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, body["code"])
			}
		})
	}
}

func TestRecoveryHidesDetails(t *testing.T) {
	app, logs := newApp(t, false, func(r fiber.Router) {
		r.Get("/panic", func(*fiber.Ctx) error { panic("boom") })
	})

	status, body := errorBody(t, app, "/panic")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, middleware.CodePanicRecovered, body["code"])
	assert.Nil(t, body["details"])
	assert.Equal(t, 1, logs.FilterMessage("recovered from panic").Len())
}

func TestMetaAndLogging(t *testing.T) {
	var gotActor, gotTrace string
	app, logs := newApp(t, true, func(r fiber.Router) {
		r.Get("/who", func(c *fiber.Ctx) error {
			gotActor = meta.Find(c.UserContext(), meta.ActorID)
			gotTrace = meta.Find(c.UserContext(), meta.TraceID)
			_, hasDeadline := c.UserContext().Deadline()
			return c.JSON(fiber.Map{"deadline": hasDeadline})
		})
	})

	req := httptest.NewRequest(fiber.MethodGet, "/who", nil)
	req.Header.Set(middleware.HeaderActorID, "agent-9")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent-9", gotActor)
	assert.NotEmpty(t, gotTrace)
	assert.Equal(t, gotTrace, resp.Header.Get(middleware.HeaderTraceID))

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["deadline"])

	entries := logs.FilterMessage("request processed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, fiber.StatusOK, entries[0].ContextMap()["http_status_code"])
	assert.Equal(t, "/who", entries[0].ContextMap()["http_route"])
}
