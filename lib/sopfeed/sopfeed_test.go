package sopfeed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"sopaggregator/lib/sop"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"count": 3,
	"lastUpdated": "2025-09-03T18:05:07.000Z",
	"sops": [
		{"sopId": "SOP-001", "region": "4", "regionName": "Demerara-Mahaica", "station": "St. Stanislaus College",
			"votes": {"APNU": 120, "AFC": 4, "FGM": 1, "ALP": 0, "PPP": 88, "WIN": 30}},
		{"sopId": "SOP-002", "region": "3", "regionName": "Essequibo Islands-West Demerara", "station": "Vreed-en-Hoop Primary",
			"votes": {"APNU": 40, "AFC": 2, "FGM": 0, "ALP": 1, "PPP": 150, "WIN": 12}},
		{"sopId": "SOP-003", "region": "4", "regionName": "Demerara-Mahaica", "station": "Queen's College",
			"votes": {"APNU": 99, "AFC": 3, "FGM": 2, "ALP": 0, "PPP": 70, "WIN": 41}}
	]
}`

type memoryTranscripts struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryTranscripts) Write(id string, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.messages == nil {
		m.messages = map[string]string{}
	}
	m.messages[id] = contents
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestFetch(t *testing.T) {
	server := serve(t, respond(http.StatusOK, sampleFeed))
	client := NewClient(ClientOptions{Endpoint: server.URL + "/sops"})

	feed, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, feed.Count)
	require.Equal(t, "2025-09-03T18:05:07.000Z", feed.LastUpdated)

	expected := sop.Record{
		SopID:      "SOP-002",
		Region:     "3",
		RegionName: "Essequibo Islands-West Demerara",
		Station:    "Vreed-en-Hoop Primary",
		Votes:      sop.Votes{APNU: 40, AFC: 2, FGM: 0, ALP: 1, PPP: 150, WIN: 12},
	}
	require.Len(t, feed.Sops, 3)
	if diff := cmp.Diff(expected, feed.Sops[1]); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
}

func TestFetchRequestShape(t *testing.T) {
	var received *http.Request
	var body []byte
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		received = r
		body, _ = io.ReadAll(r.Body)
		respond(http.StatusOK, `{"count": 0, "lastUpdated": "", "sops": []}`)(w, r)
	})

	_, err := NewClient(ClientOptions{Endpoint: server.URL + "/sops"}).Fetch(context.Background())
	require.NoError(t, err)

	require.NotNil(t, received)
	require.Equal(t, http.MethodGet, received.Method)
	require.Equal(t, "/sops", received.URL.Path)
	require.Empty(t, received.URL.RawQuery)
	require.Empty(t, body)
	require.Empty(t, received.Header.Get("Authorization"))
}

func TestFetchCountMismatchAccepted(t *testing.T) {
	body := strings.Replace(sampleFeed, `"count": 3`, `"count": 10`, 1)
	server := serve(t, respond(http.StatusOK, body))

	feed, err := NewClient(ClientOptions{Endpoint: server.URL}).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, feed.Count)
	require.Len(t, feed.Sops, 3)
}

func TestFetchMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "truncated", body: sampleFeed[:len(sampleFeed)/2]},
		{name: "bad entry", body: `{"count": 2, "sops": [
			{"sopId": "a", "region": "1", "votes": {"APNU": 1}},
			{"sopId": "b", "region": "1", "votes": {"APNU": "many"}}
		]}`},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			server := serve(t, respond(http.StatusOK, test.body))
			feed, err := NewClient(ClientOptions{Endpoint: server.URL}).Fetch(context.Background())
			require.ErrorIs(t, err, ErrMalformed)
			require.Empty(t, feed.Sops)
		})
	}
}

func TestFetchStatus(t *testing.T) {
	server := serve(t, respond(http.StatusInternalServerError, `{"error": "down"}`))
	_, err := NewClient(ClientOptions{Endpoint: server.URL}).Fetch(context.Background())
	require.ErrorIs(t, err, ErrStatus)
}

func TestFetchTransport(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, sampleFeed))
	endpoint := server.URL
	server.Close()

	_, err := NewClient(ClientOptions{Endpoint: endpoint}).Fetch(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	client := NewClient(ClientOptions{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Fetch(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestFetchNoRetry(t *testing.T) {
	calls := 0
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(http.StatusBadGateway, "")(w, r)
	})

	_, err := NewClient(ClientOptions{Endpoint: server.URL}).Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDefaultEndpoint(t *testing.T) {
	require.Equal(t, "http://localhost:5000/sops", NewClient(ClientOptions{}).Endpoint())
}

func TestTranscripts(t *testing.T) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	server := serve(t, respond(http.StatusOK, sampleFeed))
	output := &memoryTranscripts{}
	client := NewClient(ClientOptions{Endpoint: server.URL + "/sops", Transcripts: output})

	_, err := client.Fetch(context.Background())
	require.NoError(t, err)

	output.mutex.Lock()
	defer output.mutex.Unlock()
	require.Len(t, output.messages, 1)
	transcript := output.messages["1"]
	require.Contains(t, transcript, "GET "+server.URL+"/sops")
	require.Contains(t, transcript, "St. Stanislaus College")
}
