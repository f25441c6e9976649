package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iancoleman/orderedmap"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Output is where PrintFormat renders; tests swap it for a buffer.
var Output io.Writer = os.Stdout

/**
 * Convert a struct into an ordered map keeping the field order of its JSON form
 * @param {interface{}} v - Struct with json tags
 * @returns {*orderedmap.OrderedMap} Column name to value, in declaration order
 * @returns {error} Marshal error
 * @example
 * row, _ := utils.StructToOrderedMap(Package_Columns{Name: "bash"})
 */
func StructToOrderedMap(v interface{}) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal row: %w", err)
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	return m, nil
}

/**
 * Print rows as a table
 * @param {[]*orderedmap.OrderedMap} rows - Rows produced by StructToOrderedMap
 * @description
 * - Header comes from the keys of the first row
 * - Nothing is printed for an empty list
 */
func PrintFormat(rows []*orderedmap.OrderedMap) {
	if len(rows) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(Output)
	t.SetStyle(table.StyleLight)

	keys := rows[0].Keys()
	header := make(table.Row, 0, len(keys))
	for _, k := range keys {
		header = append(header, k)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, 0, len(keys))
		for _, k := range keys {
			v, _ := row.Get(k)
			r = append(r, formatCell(v))
		}
		t.AppendRow(r)
	}
	t.Render()
}

func formatCell(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case map[string]interface{}, []interface{}, orderedmap.OrderedMap:
		data, _ := json.Marshal(val)
		return string(data)
	default:
		return val
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(Output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
