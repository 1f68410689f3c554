package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/metrics"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/nao1215/siteaudit/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeScanner records the targets it receives.
type fakeScanner struct {
	mu      sync.Mutex
	targets []model.Target
	err     error
}

func (f *fakeScanner) Scan(_ context.Context, target model.Target) (*model.ScanResult, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &model.ScanResult{
		ID:              "scan-1",
		Target:          target,
		Score:           70,
		Insights:        []model.Insight{},
		Recommendations: []model.Recommendation{},
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(scanner pipeline.Scanner) *Server {
	return New(DefaultConfig(":0"), scanner,
		WithLogger(quietLogger()),
		WithCollector(metrics.NewCollector("test")),
	)
}

func postScan(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestHandleScan tests the POST /api/scan route.
func TestHandleScan(t *testing.T) {
	t.Parallel()

	t.Run("returns analysis on success", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{}
		s := newTestServer(scanner)

		rec := postScan(t, s.Handler(), `{
			"websiteUrl": "Example.com/shop",
			"businessName": "Corner Bakery",
			"location": "Portland",
			"socialHandles": {"ig": "@corner"}
		}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}

		var resp ScanResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if !resp.Success {
			t.Error("expected success to be true")
		}
		if resp.URL != "https://example.com/shop" {
			t.Errorf("url = %q, want https://example.com/shop", resp.URL)
		}
		if resp.Analysis == nil || resp.Analysis.Score != 70 {
			t.Errorf("analysis = %+v, want score 70", resp.Analysis)
		}
		if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
			t.Errorf("timestamp %q is not RFC 3339: %v", resp.Timestamp, err)
		}

		if len(scanner.targets) != 1 {
			t.Fatalf("scanner called %d times, want 1", len(scanner.targets))
		}
		got := scanner.targets[0]
		if got.BusinessName != "Corner Bakery" || got.Location != "Portland" {
			t.Errorf("target metadata = %q/%q", got.BusinessName, got.Location)
		}
		if got.SocialHandles[model.SocialPlatformInstagram] != "@corner" {
			t.Errorf("instagram handle = %q, want @corner", got.SocialHandles[model.SocialPlatformInstagram])
		}
	})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing url", body: `{}`, wantErr: "Website URL is required"},
		{name: "blank url", body: `{"websiteUrl": "   "}`, wantErr: "Website URL is required"},
		{name: "unsupported scheme", body: `{"websiteUrl": "ftp://example.com"}`, wantErr: "Invalid website URL"},
		{name: "malformed body", body: `{"websiteUrl":`, wantErr: "Invalid request body"},
		{name: "unknown platform", body: `{"websiteUrl": "example.com", "socialHandles": {"myspace": "x"}}`, wantErr: "Unknown social platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scanner := &fakeScanner{}
			rec := postScan(t, newTestServer(scanner).Handler(), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if resp.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantErr)
			}
			if len(scanner.targets) != 0 {
				t.Error("scanner should not be called for invalid requests")
			}
		})
	}

	t.Run("engine failure returns 500", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{err: pipeline.ErrNoModulesRegistered}
		rec := postScan(t, newTestServer(scanner).Handler(), `{"websiteUrl": "example.com"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Error != "Analysis failed" {
			t.Errorf("error = %q, want Analysis failed", resp.Error)
		}
		if resp.Details != pipeline.ErrNoModulesRegistered.Error() {
			t.Errorf("details = %q", resp.Details)
		}
	})

	t.Run("error details never carry api keys", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{err: errors.New("upstream rejected key sk-proj-abcdefghijklmnopqrstuv")}
		rec := postScan(t, newTestServer(scanner).Handler(), `{"websiteUrl": "example.com"}`)
		if strings.Contains(rec.Body.String(), "sk-proj-") {
			t.Errorf("response leaked key: %s", rec.Body.String())
		}
	})
}

// TestHandleScanWithEngine tests the API against the real engine with no AI provider.
func TestHandleScanWithEngine(t *testing.T) {
	t.Parallel()

	engine := pipeline.NewEngine(ai.Unavailable("none"),
		pipeline.WithOrchestratorOptions(pipeline.WithLogger(quietLogger())),
	)
	rec := postScan(t, newTestServer(engine).Handler(), `{"websiteUrl": "https://example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Analysis.Modules) != 10 {
		t.Errorf("modules = %d, want 10", len(resp.Analysis.Modules))
	}
	if resp.Analysis.Score < 0 || resp.Analysis.Score > 100 {
		t.Errorf("score %d out of range", resp.Analysis.Score)
	}
	if len(resp.Analysis.Recommendations) != len(resp.Analysis.Insights) {
		t.Errorf("recommendations = %d, insights = %d", len(resp.Analysis.Recommendations), len(resp.Analysis.Insights))
	}
}

// TestHandleDescribe tests the GET /api/scan route.
func TestHandleDescribe(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestServer(&fakeScanner{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var desc APIDescription
	if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if desc.Endpoints.Scan != "POST /api/scan" {
		t.Errorf("scan endpoint = %q", desc.Endpoints.Scan)
	}
	if len(desc.Endpoints.Features) == 0 {
		t.Error("expected features")
	}
}

// TestHealthAndMetrics tests the health and metrics routes.
func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	h := newTestServer(&fakeScanner{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `siteaudit_http_requests_total{endpoint="/healthz",method="GET",status="200"} 1`) {
		t.Errorf("expected healthz request to be counted, got:\n%s", rec.Body.String())
	}
}

// TestServe tests that Serve stops when the context is cancelled.
func TestServe(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	s := newTestServer(&fakeScanner{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/scan", "application/json",
		bytes.NewBufferString(`{"websiteUrl": "example.com"}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
