package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "занято"}, body)
}

func TestRespondServiceUnavailableSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondServiceUnavailable(rec, "retry")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		SlotID int64 `json:"slotId"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId": 5}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, int64(5), dst.SlotID)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId": 5, "extra": 1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestValidate(t *testing.T) {
	type dto struct {
		Date     string `validate:"required,datetime=2006-01-02"`
		Capacity int    `validate:"min=1,max=100"`
	}

	assert.NoError(t, Validate(dto{Date: "2030-01-02", Capacity: 3}))

	err := Validate(dto{Date: "02.01.2030", Capacity: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dto.Date: datetime=2006-01-02")
	assert.Contains(t, err.Error(), "dto.Capacity: min=1")
}

func TestPathInt64(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slotId": "12"})
	id, err := PathInt64(r, "slotId")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slotId": "-1"})
	_, err = PathInt64(r, "slotId")
	assert.Error(t, err)
}
