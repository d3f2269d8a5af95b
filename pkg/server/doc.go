// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package server exposes template conversion over HTTP.

POST /convert accepts a bulk request (see convert.BulkRequest) and responds
with a bulk response; GET /health responds with "ok".
*/
package server
