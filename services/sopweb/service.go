package sopweb

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"sopaggregator/lib/sopview"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Service struct {
	fetcher sopview.Fetcher
	loc     *time.Location
}

func NewService(fetcher sopview.Fetcher, loc *time.Location) Service {
	return Service{fetcher: fetcher, loc: loc}
}

// Handler routes the page and a health check. Every page load performs
// exactly one fetch of the feed.
func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", otelhttp.WithRouteTag("/", http.HandlerFunc(s.page)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return otelhttp.NewHandler(mux, "sopweb")
}

func (s Service) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := sopview.Load(ctx, s.fetcher, s.loc)

	var body bytes.Buffer
	err := sopview.RenderHTML(&body, page, r.URL.Query().Get("tab"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to render page", "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body.Bytes())
}
