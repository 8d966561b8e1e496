package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/table"
)

type jsonReader struct{}

func (jsonReader) CanRead(filename string) bool {
	return strings.HasSuffix(filename, ".json")
}

// Read decodes an array of flat objects. Columns appear in first-seen key
// order; numbers keep their literal text, null becomes an empty cell.
func (jsonReader) Read(name string, r io.Reader, _ Options) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var (
		columns []string
		pos     = map[string]int{}
		objects []map[string]string
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		obj := map[string]string{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decode json: %w", err)
			}
			key, _ := tok.(string)
			val, err := scalar(dec)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			if _, ok := pos[key]; !ok {
				pos[key] = len(columns)
				columns = append(columns, key)
			}
			obj[key] = val
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(columns))
		for k, v := range obj {
			row[pos[k]] = v
		}
		rows = append(rows, row)
	}
	return table.New(name, columns, rows), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("decode json: expected %q, got %v", want, tok)
	}
	return nil
}

func scalar(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	switch v := tok.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return "", errors.New("nested values are not supported")
	}
}
