package report

import "encoding/json"

// FormatJSON returns the report as indented JSON bytes.
func FormatJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FormatJSONList returns the reports as one indented JSON array, in order.
func FormatJSONList(rs []*Report) ([]byte, error) {
	if rs == nil {
		rs = []*Report{}
	}
	return json.MarshalIndent(rs, "", "  ")
}
