package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leed-cli/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a configured export format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

// Write serializes outcomes to w.
func Write(w io.Writer, outcomes []model.Outcome, format Format, style KeyStyle) error {
	rows := make([]Row, len(outcomes))
	for i, o := range outcomes {
		rows[i] = Fields(o, style)
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatJSONL:
		return writeJSONL(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	case FormatXLSX:
		return writeXLSX(w, rows, style)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

// MarshalJSON encodes the row as an object with keys in row order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []Row{}
	}
	return eris.Wrap(enc.Encode(rows), "export: encode json")
}

func writeJSONL(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "export: encode json line")
		}
	}
	return nil
}

// yamlNode builds a mapping node so key order survives encoding.
func (r Row) yamlNode() (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var v yaml.Node
		if err := v.Encode(f.Value); err != nil {
			return nil, err
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, &v)
	}
	return m, nil
}

func writeYAML(w io.Writer, rows []Row) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rows {
		n, err := r.yamlNode()
		if err != nil {
			return eris.Wrap(err, "export: build yaml node")
		}
		seq.Content = append(seq.Content, n)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml encoder")
}

// writeXLSX writes one sheet with a header row of every column and one
// row per outcome; absent fields are left blank.
func writeXLSX(w io.Writer, rows []Row, style KeyStyle) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("records")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(FormatKey(col, style))
	}

	for _, r := range rows {
		xr := sheet.AddRow()
		for _, col := range Columns {
			cell := xr.AddCell()
			v, ok := r.Get(FormatKey(col, style))
			if !ok {
				continue
			}
			switch tv := v.(type) {
			case float64:
				cell.SetFloat(tv)
			case string:
				cell.SetString(tv)
			case map[string]string:
				cell.SetString(tv[scoreDataKey])
			default:
				cell.SetString(fmt.Sprint(tv))
			}
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
