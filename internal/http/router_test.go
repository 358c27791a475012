package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"consolenav/internal/config"
	"consolenav/internal/services/data"
	"consolenav/internal/services/workspace"
	"consolenav/internal/store/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "admin-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	cfg := config.Cfg{Sec: config.SecurityCfg{AdminToken: adminToken}}
	srv := httptest.NewServer(NewRouter(RouterDependencies{
		Config:           cfg,
		Logger:           zerolog.Nop(),
		WorkspaceService: workspace.NewService(store.Workspaces()),
		DataService:      data.NewService(store.Apps(), store.Datasets(), nil),
		DB:               store,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, headers map[string]string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func onboard(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, raw := do(t, http.MethodPost, srv.URL+"/admin/workspaces",
		map[string]string{"X-Admin-Token": adminToken},
		workspace.OnboardingRequest{Name: "Acme"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var out workspace.OnboardingResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.APIKey
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, raw := do(t, http.MethodGet, srv.URL+"/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestAdminRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, http.MethodPost, srv.URL+"/admin/workspaces",
		map[string]string{"X-Admin-Token": "wrong"},
		workspace.OnboardingRequest{Name: "Acme"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConsoleRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/console/api/apps", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/console/api/apps",
		map[string]string{"Authorization": "Bearer csk_nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAppsPagination(t *testing.T) {
	srv := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + onboard(t, srv)}

	for i := 0; i < 3; i++ {
		resp, raw := do(t, http.MethodPost, srv.URL+"/console/api/apps", auth,
			data.CreateAppRequest{Name: fmt.Sprintf("app-%d", i), Mode: "chat"})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	var first struct {
		Data []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Icon           string `json:"icon"`
			IconBackground string `json:"icon_background"`
		} `json:"data"`
		HasMore bool `json:"has_more"`
		Total   int  `json:"total"`
	}
	resp, raw := do(t, http.MethodGet, srv.URL+"/console/api/apps?page=1&limit=2", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &first))
	require.Len(t, first.Data, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, "app-2", first.Data[0].Name)
	assert.NotEmpty(t, first.Data[0].Icon)
	assert.NotEmpty(t, first.Data[0].IconBackground)

	resp, raw = do(t, http.MethodGet, srv.URL+"/console/api/apps?page=2&limit=2", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second map[string]any
	require.NoError(t, json.Unmarshal(raw, &second))
	assert.Equal(t, false, second["has_more"])
	assert.Len(t, second["data"], 1)

	resp, raw = do(t, http.MethodGet, srv.URL+"/console/api/apps/"+first.Data[1].ID, auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"name":"app-1"`)
}

func TestDatasetsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + onboard(t, srv)}

	resp, raw := do(t, http.MethodGet, srv.URL+"/console/api/datasets", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[],"has_more":false,"limit":20,"page":1,"total":0}`, string(raw))

	resp, _ = do(t, http.MethodPost, srv.URL+"/console/api/datasets", auth, data.CreateDatasetRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/console/api/datasets/missing", auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = do(t, http.MethodGet, srv.URL+"/console/api/apps/not-a-uuid", auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), `"code":"not_found"`)

	resp, _ = do(t, http.MethodGet, srv.URL+"/console/api/datasets?limit=abc", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRejectsPageBeyondOffsetRange(t *testing.T) {
	srv := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + onboard(t, srv)}

	for i := 0; i < 3; i++ {
		resp, raw := do(t, http.MethodPost, srv.URL+"/console/api/apps", auth,
			data.CreateAppRequest{Name: fmt.Sprintf("app-%d", i)})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := do(t, http.MethodGet, srv.URL+"/console/api/apps?page=9223372036854775807&limit=100", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "page is out of range")

	// default limit applies when limit is absent
	resp, _ = do(t, http.MethodGet, srv.URL+"/console/api/datasets?page=9223372036854775807", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// a large but addressable page is simply empty
	resp, raw = do(t, http.MethodGet, srv.URL+"/console/api/apps?page=1000000&limit=100", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"data":[]`)
	assert.Contains(t, string(raw), `"has_more":false`)
}
