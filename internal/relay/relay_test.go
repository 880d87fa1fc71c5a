package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
)

type recordingSender struct {
	to, body string
	err      error
	calls    int
}

func (r *recordingSender) SendSMS(_ context.Context, to, body string) error {
	r.calls++
	r.to, r.body = to, body
	return r.err
}

var ist = time.FixedZone("IST", 5*3600+1800)

func newTestService(sender *recordingSender) *Service {
	svc := NewService(sender, Config{Location: ist}, metrics.NewRelayMetrics(prometheus.NewRegistry()), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Message(t *testing.T) {
	svc := newTestService(&recordingSender{})
	body, err := svc.Message(Request{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210"}, svc.now())
	require.NoError(t, err)

	want := "🏗️ HPS NEW LEAD!\n\n👤 Ravi\n📧 ravi@example.com\n📱 9876543210\n\n⏰ 1/6/2024, 3:30:00 pm\n\nCheck your email for details!"
	assert.Equal(t, want, body)
}

func TestHandler_Success(t *testing.T) {
	sender := &recordingSender{}
	router := NewRouter(NewHandler(newTestService(sender), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/send-sms",
		strings.NewReader(`{"name":"Ravi","email":"ravi@example.com","phone":"9876543210"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, DefaultDestination, sender.to)
	assert.Contains(t, sender.body, "👤 Ravi")
	assert.Equal(t, 1, sender.calls)
}

func TestHandler_SenderFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("twilio send failed: status 401 code 20003: Authenticate")}
	router := NewRouter(NewHandler(newTestService(sender), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/send-sms", strings.NewReader(`{"name":"Ravi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Authenticate")
}

func TestHandler_MalformedBody(t *testing.T) {
	sender := &recordingSender{}
	router := NewRouter(NewHandler(newTestService(sender), nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/send-sms", strings.NewReader("{")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, sender.calls)
}

func TestHandler_NoSender(t *testing.T) {
	svc := NewService(nil, Config{}, nil, nil)
	rec := httptest.NewRecorder()
	NewRouter(NewHandler(svc, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/send-sms", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrNoSender.Error())
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(NewHandler(newTestService(&recordingSender{}), nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/send-sms", nil)
	req.Header.Set("Origin", "https://hpsconstructions.in")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClient_Notify(t *testing.T) {
	sender := &recordingSender{}
	srv := httptest.NewServer(NewRouter(NewHandler(newTestService(sender), nil)))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	require.NoError(t, client.Notify(context.Background(), Request{Name: "Ravi", Phone: "9876543210"}))
	assert.Equal(t, 1, sender.calls)

	sender.err = errors.New("boom")
	err := client.Notify(context.Background(), Request{Name: "Ravi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
