package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const feedBody = `{
	"count": 5,
	"lastUpdated": "2025-09-04T01:15:00Z",
	"sops": [
		{"sopId": "R6-01", "region": "6", "regionName": "East Berbice-Corentyne", "station": "New Amsterdam",
			"votes": {"APNU": 30, "AFC": 2, "FGM": 0, "ALP": 0, "PPP": 200, "WIN": 5}},
		{"sopId": "R5-01", "region": "5", "regionName": "Mahaica-Berbice", "station": "Fort Wellington",
			"votes": {"APNU": 12, "AFC": 0, "FGM": 1, "ALP": 0, "PPP": 90, "WIN": 3}}
	]
}`

func feedServer(t *testing.T, status int, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/sops"
}

func runWith(t *testing.T, closer func(context.Context) error, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd, flags := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.json5")}, args...))
	if closer != nil {
		flags.closers = append(flags.closers, closer)
	}
	err := execute(context.Background(), cmd, flags)
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWith(t, nil, args...)
}

func TestShow(t *testing.T) {
	endpoint := feedServer(t, http.StatusOK, feedBody)

	stdout, stderr, err := run(t, "show", "--endpoint", endpoint)
	require.NoError(t, err)
	require.Contains(t, stderr, "Loading...")
	require.Contains(t, stdout, "Last Updated @ September 3, 2025 at 9:15:00 PM")
	require.Contains(t, stdout, "Total Records 5")
	require.Contains(t, stdout, "[Region 6]")
	require.Contains(t, stdout, "New Amsterdam")
	require.NotContains(t, stdout, "Fort Wellington")
}

func TestShowTab(t *testing.T) {
	endpoint := feedServer(t, http.StatusOK, feedBody)

	stdout, _, err := run(t, "show", "--endpoint", endpoint, "--tab", "total")
	require.NoError(t, err)
	require.Contains(t, stdout, "[Total]")
	require.Contains(t, stdout, "290")

	_, _, err = run(t, "show", "--endpoint", endpoint, "--tab", "9")
	require.Error(t, err)
}

func TestShowNoData(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "malformed", status: http.StatusOK, body: `{"sops": [{"sopId": `},
		{name: "server error", status: http.StatusInternalServerError, body: ""},
		{name: "no records", status: http.StatusOK, body: `{"count": 0, "lastUpdated": "2025-09-04T01:15:00Z", "sops": []}`},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			endpoint := feedServer(t, test.status, test.body)
			stdout, _, err := run(t, "show", "--endpoint", endpoint, "--tab", "total")
			require.NoError(t, err)
			require.Equal(t, "No SOP data available.\n", stdout)
		})
	}
}

func TestShowTabAndAllExclusive(t *testing.T) {
	_, _, err := run(t, "show", "--tab", "total", "--all")
	require.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)
	require.Equal(t, defaultConfig, cfg)

	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{endpoint: "http://feed.local/sops", timezone: "UTC"}`), 0600))
	cfg, err = readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "http://feed.local/sops", cfg.Endpoint)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, 30, cfg.TimeoutSeconds)
	require.Equal(t, 8080, cfg.Port)
}

func TestExecuteClosesOnFailure(t *testing.T) {
	endpoint := feedServer(t, http.StatusOK, feedBody)

	closed := 0
	closer := func(context.Context) error {
		closed++
		return nil
	}

	_, _, err := runWith(t, closer, "show", "--endpoint", endpoint, "--tab", "9")
	require.Error(t, err)
	require.Equal(t, 1, closed)

	_, _, err = runWith(t, closer, "show", "--endpoint", endpoint)
	require.NoError(t, err)
	require.Equal(t, 2, closed)
}

func TestExecuteReportsCloseError(t *testing.T) {
	endpoint := feedServer(t, http.StatusOK, feedBody)
	shutdownErr := errors.New("exporter unreachable")

	_, _, err := runWith(t, func(context.Context) error { return shutdownErr }, "show", "--endpoint", endpoint)
	require.ErrorIs(t, err, shutdownErr)
}
