package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inventory-api/internal/config"
	"inventory-api/internal/repository/memory"
	"inventory-api/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upHealth struct{}

func (upHealth) Health(ctx context.Context) map[string]string {
	return map[string]string{"status": "up"}
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "development", RequestTimeout: 5 * time.Second},
		Client: config.ClientConfig{BaseURL: apiURL, Timeout: 5 * time.Second},
	}
}

func startAPI(t *testing.T) string {
	t.Helper()
	store := memory.NewStore()
	router := server.NewRouter(testConfig(""), zap.NewNop(), server.Repositories{
		Products:  store.Products(),
		Sales:     store.Sales(),
		Purchases: store.Purchases(),
		Users:     store.Users(),
	}, upHealth{}, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(testConfig(apiURL))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig("http://api:8080"))
	require.NotNil(t, cmd)
	assert.Equal(t, "invctl", cmd.Use)

	apiFlag := cmd.PersistentFlags().Lookup("api")
	require.NotNil(t, apiFlag)
	assert.Equal(t, "http://api:8080", apiFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig(""))
	paths := [][]string{
		{"products", "list"}, {"products", "create"}, {"products", "set-stock"}, {"products", "delete"},
		{"sales", "list"}, {"sales", "create"},
		{"purchases", "list"}, {"purchases", "create"},
		{"users", "list"}, {"users", "create"},
		{"migrate", "up"}, {"migrate", "status"},
	}

	for _, path := range paths {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestInvalidFormatIsRejected(t *testing.T) {
	_, _, err := run(t, "http://unused", "--format", "yaml", "users", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestProductLifecycleText(t *testing.T) {
	api := startAPI(t)

	out, _, err := run(t, api, "products", "create", "--id", "p1", "--name", "Widget", "--price", "9.99", "--stock", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "9.99")

	out, _, err = run(t, api, "sales", "create", "--id", "s1", "--product", "p1", "--quantity", "2", "--unit-price", "9.99", "--location", "store-1")
	require.NoError(t, err)
	assert.Contains(t, out, "19.98", "total defaults to quantity * unit price")

	out, _, err = run(t, api, "sales", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget (p1)")

	_, _, err = run(t, api, "products", "set-stock", "p1", "12")
	require.NoError(t, err)

	out, _, err = run(t, api, "products", "list", "--search", "WID")
	require.NoError(t, err)
	assert.Contains(t, out, "12")

	out, _, err = run(t, api, "products", "delete", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, _, err = run(t, api, "sales", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "s1")
}

func TestJSONOutputEnvelope(t *testing.T) {
	api := startAPI(t)

	out, _, err := run(t, api, "--format", "json", "users", "create", "--name", "Ann", "--email", "ann@example.com")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			UserID string `json:"userId"`
			Email  string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.UserID)
	assert.Equal(t, "ann@example.com", resp.Data.Email)
}

func TestAPIRejectionExitsWithFailure(t *testing.T) {
	api := startAPI(t)

	out, _, err := run(t, api, "--format", "json", "products", "set-stock", "missing", "3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Not Found", resp.Error.Code)
}

func TestValidationDetailsInTextMode(t *testing.T) {
	api := startAPI(t)

	_, stderr, err := run(t, api, "users", "create", "--name", "Ann", "--email", "not-an-email")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "Bad Request")
	assert.Contains(t, stderr, "email")
}

func TestBadQuantityArgument(t *testing.T) {
	_, _, err := run(t, "http://unused", "products", "set-stock", "p1", "lots")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnreachableAPIIsCommandError(t *testing.T) {
	_, _, err := run(t, "http://127.0.0.1:1", "users", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOrphanPurchaseShowsUnknownProduct(t *testing.T) {
	api := startAPI(t)

	_, _, err := run(t, api, "purchases", "create", "--product", "ghost", "--quantity", "3", "--unit-cost", "1.5",
		"--location", "dock", "--timestamp", "2024-01-02T03:04:05Z")
	require.NoError(t, err)

	out, _, err := run(t, api, "purchases", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown Product (ghost)")
	assert.Contains(t, out, "4.50")
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
}

func TestComputeTotalRoundsToCents(t *testing.T) {
	assert.Equal(t, 19.98, computeTotal(2, 9.99))
	assert.Equal(t, 0.3, computeTotal(3, 0.1))
	assert.Equal(t, 0.0, computeTotal(0, 12.5))
}
