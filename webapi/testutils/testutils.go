// Package testutils builds a fully wired Fiber app over an in-memory SQLite
// database for HTTP tests.
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/walletledger/infra/cache"
	infra_eventbus "github.com/amirasaad/walletledger/infra/eventbus"
	"github.com/amirasaad/walletledger/pkg/app"
	"github.com/amirasaad/walletledger/pkg/config"
	pkgtestutils "github.com/amirasaad/walletledger/pkg/testutils"
	"github.com/amirasaad/walletledger/webapi"
	"github.com/amirasaad/walletledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// TestConfig returns an App config suitable for HTTP tests.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Host: "localhost", Port: 3000},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Second},
		Ledger: &config.Ledger{
			DefaultCurrency: "INR",
			PendingTimeout:  15 * time.Minute,
			SweepInterval:   time.Minute,
			SweepBatchSize:  100,
			StatsCacheTTL:   time.Minute,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}

// TestApp bundles the Fiber app with the pieces tests assert on.
type TestApp struct {
	Fiber *fiber.App
	App   *app.App
	Bus   *infra_eventbus.MemoryEventBus
}

// NewTestApp wires the application over a fresh SQLite database.
func NewTestApp(t testing.TB, cfg *config.App) *TestApp {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	uow, _ := pkgtestutils.NewUoW(t)
	logger := pkgtestutils.DiscardLogger()
	bus := infra_eventbus.NewWithMemory(logger)
	memCache := infra_cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })

	a := app.New(&app.Deps{Uow: uow, EventBus: bus, Cache: memCache, Logger: logger}, cfg)
	return &TestApp{Fiber: webapi.SetupApp(a), App: a, Bus: bus}
}

// MakeRequest sends a request through the app without a network listener.
func MakeRequest(t testing.TB, fiberApp *fiber.App, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// DecodeResponse decodes a success envelope, unmarshalling Data into dst.
func DecodeResponse(t testing.TB, resp *http.Response, dst any) common.Response {
	t.Helper()
	var raw struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	if dst != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, dst))
	}
	return common.Response{Status: raw.Status, Message: raw.Message, Data: dst}
}

// DecodeProblem decodes a problem details body.
func DecodeProblem(t testing.TB, resp *http.Response) common.ProblemDetails {
	t.Helper()
	var pd common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}
