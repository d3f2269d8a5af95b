// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"encoding/json"
	"fmt"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/files"
	"carvel.dev/vtt/pkg/orderedmap"
)

// BulkRequest carries a whole conversion in one JSON document:
// the file system contents, the template to render and its data.
type BulkRequest struct {
	Files    []BulkFile      `json:"files"`
	Template string          `json:"template"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type BulkFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

type BulkResponse struct {
	Output           string   `json:"output,omitempty"`
	ValidatedSchemas []string `json:"validated_schemas,omitempty"`
	Errors           string   `json:"errors,omitempty"`
}

func NewBulkRequest(data []byte) (BulkRequest, error) {
	var req BulkRequest
	err := json.Unmarshal(data, &req)
	if err != nil {
		return BulkRequest{}, fmt.Errorf("Unmarshaling bulk request: %s", err)
	}
	return req, nil
}

// ConvertBulk never fails; conversion errors are reported in the response.
func ConvertBulk(req BulkRequest, opts Opts, ui ui.UI) BulkResponse {
	result, err := convertBulk(req, opts, ui)
	if err != nil {
		return BulkResponse{Errors: err.Error()}
	}
	return BulkResponse{Output: string(result.Output), ValidatedSchemas: result.ValidatedSchemas}
}

func convertBulk(req BulkRequest, opts Opts, ui ui.UI) (Result, error) {
	var libFiles []*files.File

	for _, f := range req.Files {
		file, err := files.NewFileFromSource(files.NewBytesSource(f.Name, []byte(f.Data)))
		if err != nil {
			return Result{}, err
		}
		libFiles = append(libFiles, file)
	}

	lib, err := files.NewLibrary(libFiles)
	if err != nil {
		return Result{}, err
	}

	if len(req.Template) == 0 {
		return Result{}, fmt.Errorf("Expected bulk request to name a template")
	}

	var data *orderedmap.Map
	if len(req.Data) > 0 {
		data, err = LoadData("data.json", req.Data)
		if err != nil {
			return Result{}, err
		}
	}

	converter, err := NewConverter(lib, opts, ui)
	if err != nil {
		return Result{}, err
	}

	return converter.Convert(req.Template, data)
}

func (r BulkResponse) AsBytes() ([]byte, error) {
	return json.Marshal(r)
}
