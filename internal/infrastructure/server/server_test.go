package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchos/mailslot/internal/infrastructure/config"
)

func TestServerEndToEnd(t *testing.T) {
	tablePath := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte("slots:\n  - name: mailslot0\n    slot: 0\n"), 0o644))

	cfg := config.Default()
	cfg.Store.DeviceTable = tablePath

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	defer srv.Close()

	router := srv.Router()

	do := func(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
		var raw []byte
		if body != nil {
			raw, err = json.Marshal(body)
			require.NoError(t, err)
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		decoded := make(map[string]interface{})
		if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
			json.Unmarshal(w.Body.Bytes(), &decoded)
		}
		return w, decoded
	}

	w, _ := do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := do(http.MethodGet, "/slots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["slots"], 1)

	w, resp = do(http.MethodPost, "/handles", map[string]interface{}{"name": "mailslot0"})
	require.Equal(t, http.StatusCreated, w.Code)
	handleID := resp["handle_id"].(string)

	w, _ = do(http.MethodPost, "/handles/"+handleID+"/select", map[string]interface{}{"channel": 7})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(http.MethodPost, "/handles/"+handleID+"/write", map[string]interface{}{"data": "Hi"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = do(http.MethodGet, "/handles/"+handleID+"/read?capacity=128", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi", resp["data"])

	w, _ = do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mailslot_writes_total")
}

func TestServerBadDeviceTable(t *testing.T) {
	cfg := config.Default()
	cfg.Store.DeviceTable = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewServer(cfg)
	assert.Error(t, err)
}
