package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/bouncegolf/golf"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// idleScheduler never fires; settling is not under test here
type idleScheduler struct{}

func (idleScheduler) RunAt(time.Time, func()) {}
func (idleScheduler) Stop()                   {}

func newTestServer(t *testing.T) (*httptest.Server, *stepClock) {
	t.Helper()

	log, _ := test.NewNullLogger()
	clock := &stepClock{now: time.UnixMilli(1_700_000_000_000)}
	svc := golf.NewService(golf.Options{
		Clock:     clock,
		Scheduler: idleScheduler{},
		Rand:      rand.New(rand.NewSource(7)),
		Log:       log,
	})
	t.Cleanup(svc.Close)

	ts := httptest.NewServer(New(svc, log).Handler())
	t.Cleanup(ts.Close)
	return ts, clock
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createBall(t *testing.T, ts *httptest.Server, identifier string) golf.BallID {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/api/balls", createBallRequest{Identifier: identifier, Color: "blue", Name: identifier})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out createBallResponse
	decodeBody(t, resp, &out)
	return out.ID
}

func TestCreateAndGetBall(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createBall(t, ts, "user-1")

	resp := do(t, ts, http.MethodGet, "/api/balls/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var b golf.Ball
	decodeBody(t, resp, &b)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "user-1", b.Name)
}

func TestListBalls(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/api/balls", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []golf.Ball
	decodeBody(t, resp, &empty)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	createBall(t, ts, "a")
	createBall(t, ts, "b")

	resp = do(t, ts, http.MethodGet, "/api/balls", nil)
	var balls []golf.Ball
	decodeBody(t, resp, &balls)
	require.Len(t, balls, 2)
	assert.Equal(t, "a", balls[0].Name)
	assert.Equal(t, "b", balls[1].Name)
}

func TestErrorStatuses(t *testing.T) {
	ts, _ := newTestServer(t)
	createBall(t, ts, "user-1")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown ball", http.MethodGet, "/api/balls/999", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/balls/abc", nil, http.StatusBadRequest},
		{"empty identifier", http.MethodPost, "/api/balls", createBallRequest{}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/balls", map[string]string{"secret": "x"}, http.StatusBadRequest},
		{"bad angle", http.MethodPost, "/api/strokes", strokeRequest{Identifier: "user-1", AngleDegrees: 200, Mightiness: 1}, http.StatusBadRequest},
		{"too mighty", http.MethodPost, "/api/strokes", strokeRequest{Identifier: "user-1", Mightiness: 25}, http.StatusBadRequest},
		{"stroke unknown owner", http.MethodPost, "/api/strokes", strokeRequest{Identifier: "nobody", Mightiness: 1}, http.StatusNotFound},
		{"rename unknown owner", http.MethodPut, "/api/balls/name", setNameRequest{Identifier: "nobody"}, http.StatusNotFound},
		{"round in progress", http.MethodPost, "/api/level", nil, http.StatusConflict},
		{"unknown position", http.MethodGet, "/api/position/42", nil, http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/balls", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want != http.StatusMethodNotAllowed {
				var body errorBody
				decodeBody(t, resp, &body)
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestStrokeAndPosition(t *testing.T) {
	ts, clock := newTestServer(t)
	id := createBall(t, ts, "user-1")

	resp := do(t, ts, http.MethodPost, "/api/strokes", strokeRequest{Identifier: "user-1", AngleDegrees: 90, Mightiness: 10})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	clock.Advance(50 * time.Millisecond)
	resp = do(t, ts, http.MethodGet, "/api/position/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pos positionResponse
	decodeBody(t, resp, &pos)
	assert.Equal(t, "present", pos.Outcome)
	assert.False(t, pos.IsStuckOnGround)
	assert.Greater(t, pos.DX, 0.0)
}

func TestSetName(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createBall(t, ts, "user-1")

	resp := do(t, ts, http.MethodPut, "/api/balls/name", setNameRequest{Identifier: "user-1", Name: "Grace"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/balls/"+itoa(id), nil)
	var b golf.Ball
	decodeBody(t, resp, &b)
	assert.Equal(t, "Grace", b.Name)
}

func TestLevelLifecycle(t *testing.T) {
	ts, clock := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/api/level", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/level", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first golf.Level
	decodeBody(t, resp, &first)

	clock.Advance(25 * time.Second)
	resp = do(t, ts, http.MethodPost, "/api/level", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/level", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cur golf.Level
	decodeBody(t, resp, &cur)
	assert.NotEqual(t, first.ID, cur.ID)
}

func TestLevelServesTerrain(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/level", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/level", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]json.RawMessage
	decodeBody(t, resp, &raw)
	require.Contains(t, raw, "domain")
	require.Contains(t, raw, "elevation")

	var domain, elevation []float64
	require.NoError(t, json.Unmarshal(raw["domain"], &domain))
	require.NoError(t, json.Unmarshal(raw["elevation"], &elevation))
	assert.NotEmpty(t, domain)
	assert.Len(t, elevation, len(domain))
}

func TestRecoverPanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := &Server{log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handler panicked", hook.LastEntry().Message)
}
