package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hpsconstructions/hps-platform/internal/app/bootstrap"
	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/relay"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

type smsRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *smsRecorder) SendSMS(_ context.Context, _, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *smsRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Env:                    "test",
		CORSAllowedOrigins:     []string{"*"},
		RateLimitPerSecond:     5,
		RateLimitBurst:         20,
		AdminJWTSecret:         "secret",
		DispatchTimeout:        5 * time.Second,
		Timezone:               "Asia/Kolkata",
		BusinessName:           "HPS Constructions",
		ProfileStore:           bootstrap.StoreMemory,
		ProfileDebounce:        10 * time.Millisecond,
		SessionTTL:             time.Hour,
		EmailProvider:          bootstrap.EmailStub,
		LeadInboxEmail:         "leads@hps.in",
		WhatsAppNumber:         "919565550142",
		WhatsAppFallbackNumber: "919555633827",
	}
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", rr.Code)
	}
	var created struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return created.Session.ID
}

func TestBuildAppServesHealthAndMetrics(t *testing.T) {
	handler, cleanup, err := buildApp(context.Background(), testConfig(), prometheus.NewRegistry(), logging.New("error"))
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer cleanup(context.Background())

	for _, path := range []string{"/health", "/metrics", "/api/products"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestBuildAppForwardsLeadsToRelay(t *testing.T) {
	sms := &smsRecorder{}
	relaySrv := httptest.NewServer(relay.NewRouter(relay.NewHandler(relay.NewService(sms, relay.Config{}, nil, nil), nil)))
	defer relaySrv.Close()

	cfg := testConfig()
	cfg.RelayURL = relaySrv.URL
	handler, cleanup, err := buildApp(context.Background(), cfg, prometheus.NewRegistry(), logging.New("error"))
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer cleanup(context.Background())

	id := createSession(t, handler)
	body := `{"values":{"name":"Ravi Kumar","phone":"9876543210","email":"ravi@example.com","location":"Lucknow","message":"False ceiling for two rooms"}}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/forms/contact/submit", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := sms.count(); got != 1 {
		t.Fatalf("expected one relayed SMS, got %d", got)
	}
}

func TestBuildAppUsesRedisWhenReachable(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.ProfileStore = bootstrap.StoreRedis
	cfg.RedisAddr = mr.Addr()
	cfg.ProfileTTL = time.Hour
	handler, cleanup, err := buildApp(context.Background(), cfg, prometheus.NewRegistry(), logging.New("error"))
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	id := createSession(t, handler)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/sessions/"+id+"/profile",
		strings.NewReader(`{"name":"Ravi Kumar"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("patch profile: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	cleanup(context.Background())

	if !mr.Exists("hps:profile:" + id) {
		t.Fatalf("expected profile persisted to redis, keys %v", mr.Keys())
	}
}
