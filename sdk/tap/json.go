package tap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/exo-archive/exovel"
	"github.com/exo-archive/exovel/types"
	"github.com/exo-archive/exovel/util"
)

// parseJSON converts a JSON response body, an array of row objects, into a
// ResultSet. JSON carries no metadata block, so column order is taken from
// the first object via a token-level decode, and data types are inferred
// from values: every number is declared "double" (a first row may hold an
// integer-looking value in a column that is fractional elsewhere), strings
// are "char", booleans "boolean". A column that is null in every row
// defaults to "char".
//
// An empty array yields a result set with zero rows and zero columns; it is
// the caller's job to treat that as "no matches", not a failure.
func parseJSON(body []byte) (*types.ResultSet, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("malformed json response: %w", err)
	}

	var order []string
	colType := make(map[string]string)
	known := make(map[string]bool)
	var rawRows []*jsonRow

	for dec.More() {
		row, err := readRowObject(dec)
		if err != nil {
			return nil, fmt.Errorf("malformed json response: %w", err)
		}

		if order == nil {
			order = row.keys
			for _, k := range order {
				known[k] = true
			}
		}
		for k, t := range row.types {
			if !known[k] {
				exovel.LogWarnf("json row carries column %q not present in the first row, ignoring", k)
				continue
			}
			if colType[k] == "" && t != "" {
				colType[k] = t
			}
		}
		rawRows = append(rawRows, row)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("malformed json response: %w", err)
	}

	metadata := &types.ResultSetMetadata{ColumnInfo: make([]types.ColumnInfo, 0, len(order))}
	for _, k := range order {
		t := colType[k]
		if t == "" {
			t = "char"
		}
		metadata.ColumnInfo = append(metadata.ColumnInfo, types.ColumnInfo{
			Name: util.RefString(k),
			Type: util.RefString(t),
		})
	}

	resultSet := &types.ResultSet{
		ResultSetMetadata: metadata,
		Rows:              make([]types.Row, 0, len(rawRows)),
	}
	for _, row := range rawRows {
		data := make([]types.Datum, 0, len(order))
		for _, k := range order {
			data = append(data, types.Datum{Value: row.values[k]})
		}
		resultSet.Rows = append(resultSet.Rows, types.Row{Data: data})
	}

	return resultSet, nil
}

// jsonRow is one decoded row object: key order as encountered, plus the text
// serialization and inferred datatype per key. A null value has a nil entry
// in values and an empty type.
type jsonRow struct {
	keys   []string
	values map[string]*string
	types  map[string]string
}

func readRowObject(dec *json.Decoder) (*jsonRow, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	row := &jsonRow{
		values: make(map[string]*string),
		types:  make(map[string]string),
	}
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyToken)
		}

		valueToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := valueToken.(type) {
		case json.Number:
			row.values[key] = util.RefString(v.String())
			row.types[key] = "double"
		case string:
			row.values[key] = util.RefString(v)
			row.types[key] = "char"
		case bool:
			row.values[key] = util.RefString(strconv.FormatBool(v))
			row.types[key] = "boolean"
		case nil:
			row.values[key] = nil
		default:
			return nil, fmt.Errorf("unsupported nested value for column %q", key)
		}
		row.keys = append(row.keys, key)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return row, nil
}

func expectDelim(dec *json.Decoder, want rune) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := token.(json.Delim)
	if !ok || rune(delim) != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}
