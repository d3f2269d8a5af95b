// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
)

const defaultMaxRequestBytes = 10 << 20

type ServerOpts struct {
	ListenAddr      string
	RedirectToHTTPS bool
	// MaxRequestBytes limits convert request bodies; 0 means 10 MiB.
	MaxRequestBytes int64
	ConvertOpts     convert.Opts
}

type Server struct {
	opts ServerOpts
	ui   ui.UI
}

func NewServer(opts ServerOpts, ui ui.UI) *Server {
	return &Server{opts, ui}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	// no need for caching as it's a POST
	mux.HandleFunc("/convert", s.redirectToHTTPS(s.corsHandler(s.convertHandler)))
	mux.HandleFunc("/health", s.noCacheHandler(s.healthHandler))
	return mux
}

func (s *Server) Run() error {
	server := &http.Server{
		Addr:              s.opts.ListenAddr,
		Handler:           s.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.ui.Printf("Listening on http://%s\n", server.Addr)
	return server.ListenAndServe()
}

func (s *Server) convertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.logError(w, http.StatusMethodNotAllowed, fmt.Errorf("Expected POST request, but was %s", r.Method))
		return
	}

	maxBytes := s.opts.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxRequestBytes
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.logError(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("Expected request body to be at most %d bytes", maxBytesErr.Limit))
			return
		}
		s.logError(w, http.StatusBadRequest, err)
		return
	}

	req, err := convert.NewBulkRequest(data)
	if err != nil {
		s.logError(w, http.StatusBadRequest, err)
		return
	}

	t1 := time.Now()
	resp := convert.ConvertBulk(req, s.opts.ConvertOpts, s.ui)
	s.ui.Debugf("convert %s (errors: %t): %s\n", req.Template, len(resp.Errors) > 0, time.Now().Sub(t1))

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, []byte("ok"))
}

func (s *Server) logError(w http.ResponseWriter, status int, err error) {
	s.ui.Warnf("%s\n", err.Error())
	s.writeJSON(w, status, convert.BulkResponse{Errors: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp convert.BulkResponse) {
	respBytes, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "generation error: %s", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	s.write(w, respBytes)
}

func (s *Server) write(w http.ResponseWriter, data []byte) {
	w.Write(data) // not fmt.Fprintf!
}

func (s *Server) redirectToHTTPS(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	if !s.opts.RedirectToHTTPS {
		return wrappedFunc
	}
	return func(w http.ResponseWriter, r *http.Request) {
		checkHTTPS := true
		clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			if clientIP == "127.0.0.1" {
				checkHTTPS = false
			}
		}

		if checkHTTPS && r.Header.Get(http.CanonicalHeaderKey("x-forwarded-proto")) != "https" {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				if len(r.Host) == 0 {
					s.logError(w, http.StatusBadRequest, fmt.Errorf("Expected non-empty Host header"))
					return
				}

				http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
				return
			}

			// Fail if it's not a GET or HEAD since req may have carried body insecurely
			s.logError(w, http.StatusForbidden, fmt.Errorf("Expected HTTPS connection"))
			return
		}

		wrappedFunc(w, r)
	}
}

var (
	noCacheHeaders = map[string]string{
		"Expires":         time.Unix(0, 0).Format(time.RFC1123),
		"Cache-Control":   "no-cache, private, max-age=0",
		"Pragma":          "no-cache",
		"X-Accel-Expires": "0",
	}
)

func (s *Server) noCacheHandler(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range noCacheHeaders {
			w.Header().Set(k, v)
		}

		wrappedFunc(w, r)
	}
}

func (s *Server) corsHandler(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		wrappedFunc(w, r)
	}
}
