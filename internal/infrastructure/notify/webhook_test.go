package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsAgent/internal/domain"
)

func TestPublishReports(t *testing.T) {
	var received runPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.PublishReports(context.Background(), []domain.Report{
		{
			Source:   "zdnet",
			Inserted: 3,
			Updated:  1,
			Pages: []domain.PageStat{
				{URL: "https://z.example/feed", Entries: 10},
				{URL: "https://z.example/feed?paged=2", Err: "status 404"},
			},
		},
	})
	if err != nil {
		t.Fatalf("PublishReports: %v", err)
	}

	if len(received.Reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(received.Reports))
	}
	got := received.Reports[0]
	if got.Inserted != 3 || got.Pages != 2 || got.Failures != 1 {
		t.Errorf("payload = %+v", got)
	}
}

func TestPublishReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.PublishReports(context.Background(), nil); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestPublishReportsMisconfigured(t *testing.T) {
	n := NewWebhookNotifier("")
	if err := n.PublishReports(context.Background(), nil); err == nil {
		t.Fatal("expected error without endpoint")
	}
}
