// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// CustomHostVariable names the environment variable holding the scheme and
// host (e.g. https://vtt.example.com) that request paths are resolved against.
const CustomHostVariable = "VTT_LAMBDA_HOST"

// DefaultServerAddress is used when CustomHostVariable is not set.
const DefaultServerAddress = "https://vtt-lambda.local"

type RequestAccessor struct {
	stripBasePath string
}

func (r *RequestAccessor) ProxyEventToHTTPRequest(req events.ALBTargetGroupRequest) (*http.Request, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decodedBody, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("Decoding base64 body: %s", err)
		}
		body = decodedBody
	}

	serverAddress := DefaultServerAddress
	if customAddress, ok := os.LookupEnv(CustomHostVariable); ok {
		serverAddress = customAddress
	}

	reqURL := serverAddress + r.path(req.Path)
	if query := r.queryString(req); len(query) > 0 {
		reqURL += "?" + query
	}

	httpRequest, err := http.NewRequest(strings.ToUpper(req.HTTPMethod), reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Building request %s %s: %s", req.HTTPMethod, req.Path, err)
	}

	for h, v := range req.Headers {
		httpRequest.Header.Add(h, v)
	}

	for h, vs := range req.MultiValueHeaders {
		for _, v := range vs {
			httpRequest.Header.Add(h, v)
		}
	}

	// Host header is not part of Header for server requests
	if host := httpRequest.Header.Get("Host"); len(host) > 0 {
		httpRequest.Host = host
	}

	return httpRequest, nil
}

func (r *RequestAccessor) path(path string) string {
	if len(r.stripBasePath) > 1 && strings.HasPrefix(path, r.stripBasePath) {
		path = strings.TrimPrefix(path, r.stripBasePath)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (r *RequestAccessor) queryString(req events.ALBTargetGroupRequest) string {
	values := url.Values{}

	for k, v := range req.QueryStringParameters {
		values.Add(k, v)
	}
	for k, vs := range req.MultiValueQueryStringParameters {
		values.Del(k)
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pieces []string
	for _, k := range keys {
		for _, v := range values[k] {
			pieces = append(pieces, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(pieces, "&")
}
