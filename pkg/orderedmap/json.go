// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// ParseJSON reads exactly one JSON value. Objects become *Map (duplicate
// keys: last value wins, first position kept), arrays []interface{} and
// numbers json.Number so that they are written back verbatim. Input must be
// valid UTF-8.
func ParseJSON(data []byte) (interface{}, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("invalid UTF-8 in JSON document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := parseJSONValue(dec)
	if err != nil {
		return nil, err
	}

	_, err = dec.Token()
	switch {
	case err == io.EOF:
		return val, nil
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
}

func parseJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return tok, nil
	}

	switch delim {
	case '{':
		result := NewMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key to be a string, but was %T", keyTok)
			}
			val, err := parseJSONValue(dec)
			if err != nil {
				return nil, err
			}
			result.Set(key, val)
		}
		return result, expectDelim(dec, '}')

	case '[':
		result := []interface{}{}
		for dec.More() {
			val, err := parseJSONValue(dec)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, expectDelim(dec, ']')

	default:
		return nil, fmt.Errorf("unexpected delimiter '%s' at offset %d", delim, dec.InputOffset())
	}
}

func expectDelim(dec *json.Decoder, expected json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if tok != expected {
		return fmt.Errorf("expected '%s' at offset %d", expected, dec.InputOffset())
	}
	return nil
}

// AsJSON writes the canonical form of a document: compact, object keys in
// their stored order, no HTML escaping.
func AsJSON(val interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := writeJSON(&buf, val)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, val interface{}) error {
	switch typedVal := val.(type) {
	case nil:
		buf.WriteString("null")

	case bool:
		buf.WriteString(strconv.FormatBool(typedVal))

	case string:
		return writeJSONString(buf, typedVal)

	case json.Number:
		buf.WriteString(typedVal.String())

	case int:
		buf.WriteString(strconv.Itoa(typedVal))

	case int64:
		buf.WriteString(strconv.FormatInt(typedVal, 10))

	case uint64:
		buf.WriteString(strconv.FormatUint(typedVal, 10))

	case float64:
		if math.IsInf(typedVal, 0) || math.IsNaN(typedVal) {
			return fmt.Errorf("unsupported float value %v", typedVal)
		}
		buf.WriteString(strconv.FormatFloat(typedVal, 'g', -1, 64))

	case time.Time:
		return writeJSONString(buf, typedVal.Format(time.RFC3339Nano))

	case *Map:
		buf.WriteByte('{')
		first := true
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			return writeJSON(buf, v)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')

	case []interface{}:
		buf.WriteByte('[')
		for i, item := range typedVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case map[string]interface{}:
		ordered, err := Conversion{typedVal}.FromUnorderedMaps()
		if err != nil {
			return err
		}
		return writeJSON(buf, ordered)

	default:
		return fmt.Errorf("unsupported document value of type %T", val)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, str string) error {
	var strBuf bytes.Buffer
	enc := json.NewEncoder(&strBuf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(str); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(strBuf.Bytes(), []byte("\n")))
	return nil
}
