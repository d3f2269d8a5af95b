// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"carvel.dev/vtt/pkg/server"
	"github.com/stretchr/testify/require"
)

const convertReq = `{
  "files": [
    {"name": "tpl.liquid", "data": "{% validate 'schema.json' %}{\"count\": {{ count }}}{% endvalidate %}"},
    {"name": "schema.json", "data": "{\"properties\": {\"count\": {\"type\": \"integer\", \"maximum\": 10}}}"}
  ],
  "template": "tpl",
  "data": {"count": %s}
}`

func newServer(redirect bool) *httptest.Server {
	return httptest.NewServer(server.NewServer(server.ServerOpts{RedirectToHTTPS: redirect}, ui.NewNoopUI()).Mux())
}

func postConvert(t *testing.T, url, body string) (*http.Response, convert.BulkResponse) {
	t.Helper()

	resp, err := http.Post(url+"/convert", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var bulkResp convert.BulkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bulkResp))

	return resp, bulkResp
}

func TestConvert(t *testing.T) {
	srv := newServer(false)
	defer srv.Close()

	resp, bulkResp := postConvert(t, srv.URL, strings.Replace(convertReq, "%s", "3", 1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, convert.BulkResponse{Output: `{"count":3}`, ValidatedSchemas: []string{"schema.json"}}, bulkResp)

	resp, bulkResp = postConvert(t, srv.URL, strings.Replace(convertReq, "%s", "11", 1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, bulkResp.Output)
	require.Contains(t, bulkResp.Errors, "Rendering 'validate' tag (line tpl:1:1): validation error: ")
	require.Contains(t, bulkResp.Errors, "(path '#/count')")
}

func TestConvertBadRequests(t *testing.T) {
	srv := newServer(false)
	defer srv.Close()

	resp, bulkResp := postConvert(t, srv.URL, `{"files": `)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, bulkResp.Errors, "Unmarshaling bulk request: ")

	getResp, err := http.Get(srv.URL + "/convert")
	require.NoError(t, err)
	getResp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, getResp.StatusCode)
	require.Equal(t, "POST", getResp.Header.Get("Allow"))
}

func TestConvertRequestTooLarge(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(server.ServerOpts{MaxRequestBytes: 64}, ui.NewNoopUI()).Mux())
	defer srv.Close()

	resp, bulkResp := postConvert(t, srv.URL, `{"files": [], "template": "`+strings.Repeat("x", 100)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	require.Equal(t, "Expected request body to be at most 64 bytes", bulkResp.Errors)

	resp, bulkResp = postConvert(t, srv.URL, `{"files": [], "template": "x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, bulkResp.Errors, "Loading template: ")
}

func TestHealth(t *testing.T) {
	srv := newServer(true)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-cache, private, max-age=0", resp.Header.Get("Cache-Control"))
}

func TestRedirectToHTTPS(t *testing.T) {
	handler := server.NewServer(server.ServerOpts{RedirectToHTTPS: true}, ui.NewNoopUI()).Mux()

	req := httptest.NewRequest(http.MethodPost, "http://vtt.example.com/convert", strings.NewReader(`{}`))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Expected HTTPS connection")

	req = httptest.NewRequest(http.MethodGet, "http://vtt.example.com/convert", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "https://vtt.example.com/convert", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "http://vtt.example.com/convert", strings.NewReader(strings.Replace(convertReq, "%s", "1", 1)))
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"output": "{\"count\":1}", "validated_schemas": ["schema.json"]}`, rec.Body.String())
}
