package resource

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Filter keeps rows whose serialised record contains term, ignoring case.
// An empty term keeps everything.
func Filter(rows []Row, term string) []Row {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(searchText(r)), needle) {
			out = append(out, r)
		}
	}
	return out
}

func searchText(r Row) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Record); err != nil {
		return strings.Join(r.Cells, " ")
	}
	return buf.String()
}
