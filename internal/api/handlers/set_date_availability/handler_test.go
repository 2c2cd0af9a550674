package set_date_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeService struct {
	calls []string
}

func (f *fakeService) DisableByDate(_ context.Context, date time.Time) (*models.DateAvailabilityResponse, error) {
	f.calls = append(f.calls, "disable")
	return &models.DateAvailabilityResponse{Date: date.Format(domain.DateFormat), Disabled: true, Affected: 3}, nil
}

func (f *fakeService) EnableByDate(_ context.Context, date time.Time) (*models.DateAvailabilityResponse, error) {
	f.calls = append(f.calls, "enable")
	return &models.DateAvailabilityResponse{Date: date.Format(domain.DateFormat), Disabled: false, Affected: 3}, nil
}

func newRequest(date string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/dates/"+date+"/disable", nil)
	return mux.SetURLVars(r, map[string]string{"date": date})
}

func TestHandle_Direction(t *testing.T) {
	svc := &fakeService{}

	w := httptest.NewRecorder()
	NewHandler(svc, true, logger.NewNop()).Handle(w, newRequest("2030-05-10"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DateAvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Disabled)
	assert.Equal(t, int64(3), resp.Affected)

	w = httptest.NewRecorder()
	NewHandler(svc, false, logger.NewNop()).Handle(w, newRequest("2030-05-10"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"disable", "enable"}, svc.calls)
}

func TestHandle_InvalidDate(t *testing.T) {
	svc := &fakeService{}

	w := httptest.NewRecorder()
	NewHandler(svc, true, logger.NewNop()).Handle(w, newRequest("tomorrow"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.calls)
}
