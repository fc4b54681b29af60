package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapy-track/internal/router"
)

func TestHTTP_EndToEnd_DayLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Catálogo
	medID := createID(t, ts.URL, "/medicines", map[string]any{
		"name":      "Ibuprofen",
		"base_unit": "tablet",
		"active_ingredients": []map[string]any{
			{"name": "Ibuprofen", "amount": 200, "unit": "mg"},
		},
	})

	groupID := createID(t, ts.URL, "/groups", map[string]any{
		"name":           "Morning",
		"color":          "#ffff64",
		"is_reminder_on": false,
	})

	// 2) Schedule dos veces al día, ambas dosis en el mismo grupo
	var scheduleID string
	{
		st, body := doReq(t, ts.URL, http.MethodPost, "/schedules", map[string]any{
			"medicine_id": medID,
			"start_date":  "2024-01-01",
			"end_date":    "2024-01-10",
			"frequency":   "twice_daily",
			"doses": []map[string]any{
				{"amount": 1, "group_id": groupID},
				{"amount": 2, "group_id": groupID},
			},
		})
		require.Equal(t, http.StatusCreated, st, string(body))

		var out struct {
			Schedule struct {
				ID    string `json:"id"`
				Doses []struct {
					Index int `json:"index"`
				} `json:"doses"`
			} `json:"schedule"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.NotEmpty(t, out.Schedule.ID)
		require.Len(t, out.Schedule.Doses, 2)
		scheduleID = out.Schedule.ID
	}

	// 3) Día con dosis pendientes
	{
		day := getDay(t, ts.URL, "2024-01-05")
		require.Len(t, day.Groups, 1)
		assert.Equal(t, "Morning", day.Groups[0].Name)
		assert.False(t, day.Groups[0].Complete)
		require.Len(t, day.Groups[0].Scheduled, 2)
		for _, d := range day.Groups[0].Scheduled {
			assert.False(t, d.IsDone)
		}
	}

	// Fuera de rango no hay nada
	{
		day := getDay(t, ts.URL, "2024-01-11")
		assert.Empty(t, day.Groups)
	}

	// 4) Toggles: la segunda dosis completa el grupo
	togglePath := "/days/2024-01-05/schedules/" + scheduleID + "/doses/"
	{
		out := toggle(t, ts.URL, togglePath+"0")
		assert.True(t, out.Done)
		assert.NotEmpty(t, out.RecordID)
		assert.False(t, out.GroupComplete)
		assert.Equal(t, "none", out.Transition)
	}
	{
		out := toggle(t, ts.URL, togglePath+"1")
		assert.True(t, out.Done)
		assert.True(t, out.GroupComplete)
		assert.Equal(t, "completed", out.Transition)
	}
	{
		day := getDay(t, ts.URL, "2024-01-05")
		require.Len(t, day.Groups, 1)
		assert.True(t, day.Groups[0].Complete)
	}

	// Desmarcar y volver a marcar reabre y recompleta
	{
		out := toggle(t, ts.URL, togglePath+"1")
		assert.False(t, out.Done)
		assert.Equal(t, "reopened", out.Transition)

		out = toggle(t, ts.URL, togglePath+"1")
		assert.True(t, out.Done)
		assert.Equal(t, "completed", out.Transition)
	}

	// Índice inexistente
	{
		st, body := doReq(t, ts.URL, http.MethodPost, togglePath+"7/toggle", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, st, string(body))
	}

	// 5) Toma puntual otro día
	{
		st, body := doReq(t, ts.URL, http.MethodPost, "/intakes/unscheduled", map[string]any{
			"medicine_id": medID,
			"amount":      1,
			"day":         "2024-01-06",
		})
		require.Equal(t, http.StatusCreated, st, string(body))
	}

	// 6) Reporte: 1x200 + 2x200 el 05, 1x200 el 06; días en orden descendente
	{
		st, body := doReq(t, ts.URL, http.MethodGet, "/reports/intake?from=2024-01-01&to=2024-01-31", nil)
		require.Equal(t, http.StatusOK, st, string(body))

		var table struct {
			Headers []string   `json:"headers"`
			Rows    [][]string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(body, &table))
		assert.Equal(t, []string{"Date", "Ibuprofen [mg]"}, table.Headers)
		assert.Equal(t, [][]string{
			{"2024-01-06", "200"},
			{"2024-01-05", "600"},
		}, table.Rows)
	}

	// 7) Medicamento en uso no se puede borrar
	{
		st, body := doReq(t, ts.URL, http.MethodDelete, "/medicines/"+medID, nil)
		assert.Equal(t, http.StatusConflict, st, string(body))
	}

	// 8) Borrar el schedule limpia sus registros
	{
		st, _ := doReq(t, ts.URL, http.MethodDelete, "/schedules/"+scheduleID, nil)
		require.Equal(t, http.StatusNoContent, st)

		day := getDay(t, ts.URL, "2024-01-05")
		assert.Empty(t, day.Groups)
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad day", http.MethodGet, "/days/2024-13-40", nil, http.StatusBadRequest},
		{"bad range", http.MethodGet, "/intakes?from=2024-02-01&to=2024-01-01", nil, http.StatusBadRequest},
		{"missing medicine", http.MethodGet, "/medicines/nope", nil, http.StatusNotFound},
		{"bad color", http.MethodPost, "/groups", map[string]any{"name": "x", "color": "red"}, http.StatusBadRequest},
		{"unknown frequency", http.MethodPost, "/schedules", map[string]any{
			"medicine_id": "m", "start_date": "2024-01-01", "frequency": "hourly",
		}, http.StatusBadRequest},
		{"schedule without medicine", http.MethodPost, "/schedules", map[string]any{
			"medicine_id": "missing", "start_date": "2024-01-01", "frequency": "once_daily",
			"doses": []map[string]any{{"amount": 1}},
		}, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, body := doReq(t, ts.URL, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, st, string(body))
		})
	}
}

func TestHTTP_Ambient(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/frequencies", nil)
	require.Equal(t, http.StatusOK, st)
	var menu []struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(body, &menu))
	assert.Len(t, menu, 5)

	// Una request ya pasó por AccessLog, así que la serie existe
	st, body = doReq(t, ts.URL, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, st)
	assert.True(t, strings.Contains(string(body), "therapy_track_http_requests_total"))

	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

// --- helpers ---

type dayBody struct {
	Day    string `json:"day"`
	Groups []struct {
		GroupID   *string `json:"group_id"`
		Name      string  `json:"name"`
		Complete  bool    `json:"complete"`
		Pending   int     `json:"pending"`
		Scheduled []struct {
			DoseIndex *int `json:"dose_index"`
			IsDone    bool `json:"is_done"`
		} `json:"scheduled"`
	} `json:"groups"`
}

type toggleBody struct {
	Done          bool   `json:"done"`
	RecordID      string `json:"record_id"`
	GroupComplete bool   `json:"group_complete"`
	Transition    string `json:"transition"`
}

func createID(t *testing.T, baseURL, path string, body any) string {
	t.Helper()

	st, resp := doReq(t, baseURL, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, st, string(resp))

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func getDay(t *testing.T, baseURL, day string) dayBody {
	t.Helper()

	st, body := doReq(t, baseURL, http.MethodGet, "/days/"+day, nil)
	require.Equal(t, http.StatusOK, st, string(body))

	var out dayBody
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func toggle(t *testing.T, baseURL, dosePath string) toggleBody {
	t.Helper()

	st, body := doReq(t, baseURL, http.MethodPost, dosePath+"/toggle", nil)
	require.Equal(t, http.StatusOK, st, string(body))

	var out toggleBody
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
