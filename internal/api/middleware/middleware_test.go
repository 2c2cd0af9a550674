package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

func TestAuth(t *testing.T) {
	var (
		gotUser int64
		gotRole domain.Role
	)
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserID(r.Context())
		gotRole, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantRole   domain.Role
	}{
		{name: "captain by default", userID: "42", wantStatus: http.StatusNoContent, wantRole: domain.RoleCaptain},
		{name: "admin", userID: "42", role: "admin", wantStatus: http.StatusNoContent, wantRole: domain.RoleAdmin},
		{name: "missing user", wantStatus: http.StatusUnauthorized},
		{name: "bad user", userID: "abc", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "42", role: "root", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotRole = 0, ""
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, int64(42), gotUser)
				assert.Equal(t, tt.wantRole, gotRole)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	h := Auth(AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderUserID, "1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r.Header.Set(HeaderUserRole, "admin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type recordedRequest struct {
	method, path, status string
}

type fakeHTTPMetrics struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, path, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{method, path, status})
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/slots/{slotId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slots/15", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, recordedRequest{"GET", "/slots/{slotId}", "404"}, m.seen[0])
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

func TestRequestID(t *testing.T) {
	var inside string
	h := RequestID(Logging(nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inside = GetRequestID(r.Context())
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(inside)
	assert.NoError(t, err)
	assert.Equal(t, inside, rec.Header().Get(HeaderRequestID))

	given := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, given)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, given, inside)
}
