package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/moodlog/internal/catalog"
	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/memory"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

var now = time.Date(2024, 3, 10, 21, 45, 0, 0, time.UTC)

type fixture struct {
	srv *Server
	kv  *memory.Store
}

func newFixture(t *testing.T, seed map[string][]byte) fixture {
	t.Helper()
	kv := memory.NewWithData(seed)
	clock := types.FixedClock(now)
	cat := catalog.New(kv)
	j := journal.New(kv, cat, journal.WithClock(clock))
	return fixture{srv: NewServer(":0", cat, j, WithClock(clock)), kv: kv}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-03-10T21:45:00Z", body["timestamp"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodOptions, "/api/registro", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestListFeelingsKeepsOrder(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/sentimentos", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `"alegria"`), strings.Index(body, `"nostalgia"`))
	assert.Contains(t, body, `"cor":"#FFD700"`)
}

func TestAddThenGetDay(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"alegria","nota":"sol","data":"2024-02-01","horario":"09:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "2024-02-01", created["data"])
	assert.Equal(t, "09:00", created["horario"])
	assert.Equal(t, "sol", created["nota"])

	rec = f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"medo","data":"2024-02-01","horario":"08:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/registro/2024-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode(t, rec)
	assert.Equal(t, "2024-02-01", day["data"])
	entries := day["registros"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "08:00", entries[0].(map[string]any)["horario"])
	assert.Nil(t, entries[0].(map[string]any)["nota"])
}

func TestAddDefaultsToNow(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"tedio"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "2024-03-10", body["data"])
	assert.Equal(t, "21:45", body["horario"])
}

func TestAddInvalidFeeling(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"euforia"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.True(t, strings.HasPrefix(body["detail"].(string), "Sentimento inválido. Opções: alegria, tristeza"))
	assert.Len(t, body["opcoes"], 10)

	_, ok, err := f.kv.Load(types.KeyRecords)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddBadInput(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sentimento":`},
		{"bad date", `{"sentimento":"alegria","data":"10/03/2024"}`},
		{"bad time", `{"sentimento":"alegria","horario":"manhã"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/registro", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetDayErrors(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/registro/2024-01-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Registro não encontrado", decode(t, rec)["detail"])

	rec = f.do(t, http.MethodGet, "/api/registro/ontem", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLegacyDay(t *testing.T) {
	f := newFixture(t, map[string][]byte{
		types.KeyRecords: []byte(`{"2023-11-02": {"sentimento": "alegria", "nota": "x"}}`),
	})
	rec := f.do(t, http.MethodGet, "/api/registro/2023-11-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "alegria", body["sentimento"])
	assert.Equal(t, "x", body["nota"])
	assert.Equal(t, "2023-11-02", body["data"])
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"alegria","data":"2024-02-01","horario":"09:00"}`)
	f.do(t, http.MethodPost, "/api/registro", `{"sentimento":"medo","data":"2024-02-01","horario":"10:00"}`)

	rec := f.do(t, http.MethodDelete, "/api/registro/2024-02-01?horario=09:00", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Registro de 2024-02-01 às 09:00 removido com sucesso", decode(t, rec)["message"])

	rec = f.do(t, http.MethodDelete, "/api/registro/2024-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Registro de 2024-02-01 removido com sucesso", decode(t, rec)["message"])

	rec = f.do(t, http.MethodDelete, "/api/registro/2024-02-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAllAndYear(t *testing.T) {
	f := newFixture(t, map[string][]byte{
		types.KeyRecords: []byte(`{"2023-11-02": {"sentimento": "alegria", "nota": null}, "2024-01-05": {"registros": [{"horario": "10:00", "sentimento": "medo", "nota": null}]}}`),
	})

	rec := f.do(t, http.MethodGet, "/api/registro", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["registro"], 2)

	rec = f.do(t, http.MethodGet, "/api/ano/2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2024, body["ano"])
	assert.EqualValues(t, 1, body["total_dias"])

	rec = f.do(t, http.MethodGet, "/api/ano/24x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeelingCounts(t *testing.T) {
	f := newFixture(t, map[string][]byte{
		types.KeyRecords: []byte(`{
			"2024-01-01": {"sentimento": "alegria", "nota": null},
			"2024-01-02": {"registros": [
				{"horario": "08:00", "sentimento": "alegria", "nota": null},
				{"horario": "09:00", "sentimento": "alegria", "nota": null},
				{"horario": "10:00", "sentimento": "tristeza", "nota": null}
			]}
		}`),
	})
	rec := f.do(t, http.MethodGet, "/api/estatisticas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.EqualValues(t, 2, body["total_dias"])
	assert.EqualValues(t, 4, body["total_registros"])
	counts := body["estatisticas"].([]any)
	require.Len(t, counts, 2)
	first := counts[0].(map[string]any)
	assert.Equal(t, "alegria", first["sentimento"])
	assert.EqualValues(t, 75.0, first["percentage"])
}

func TestFeelingCountsEmpty(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/estatisticas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["estatisticas"])
}

func TestFeelingCountsUnknownFeeling(t *testing.T) {
	f := newFixture(t, map[string][]byte{
		types.KeyRecords: []byte(`{"2024-01-01": {"sentimento": "euforia", "nota": null}}`),
	})
	rec := f.do(t, http.MethodGet, "/api/estatisticas", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["detail"], "euforia")
}

func TestCalendar(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/calendario?semanas=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["dias"], 15)
	assert.Equal(t, "2024-03-10", body["fim"])

	rec = f.do(t, http.MethodGet, "/api/calendario", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["dias"], 52*7+1)

	for _, q := range []string{"semanas=0", "semanas=abc", "semanas=9999"} {
		rec = f.do(t, http.MethodGet, "/api/calendario?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHeatmapSVG(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/grafico.svg?semanas=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 8, strings.Count(rec.Body.String(), "<rect "))
}

func TestRecoverMiddleware(t *testing.T) {
	h := withRecover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(types.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(&types.ValidationError{}))
	assert.Equal(t, http.StatusBadRequest, statusFor(&types.InvalidFeelingError{}))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("add: %w", &types.InvalidFeelingError{Name: "x"})))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&types.UnknownFeelingError{}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestServerTimeouts(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, 10*time.Second, f.srv.ReadTimeout)
	assert.Equal(t, 60*time.Second, f.srv.IdleTimeout)
}
