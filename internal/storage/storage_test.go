package storage

import "testing"

func TestParseSort(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		field    string
		desc     bool
	}{
		{name: "descending default", sort: "-created_at", field: "created_at", desc: true},
		{name: "ascending", sort: "title", field: "title", desc: false},
		{name: "descending title", sort: "-title", field: "title", desc: true},
		{name: "empty", sort: "", field: "", desc: false},
		{name: "double dash", sort: "--name", field: "name", desc: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, desc := ParseSort(tt.sort)
			if field != tt.field {
				t.Errorf("field = %q, want %q", field, tt.field)
			}
			if desc != tt.desc {
				t.Errorf("descending = %v, want %v", desc, tt.desc)
			}
		})
	}
}
