package extract

import (
	"reflect"
	"testing"
)

func TestHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "no tags",
			text: "plain text without any tags",
			want: []string{},
		},
		{
			name: "tags normalized to lowercase",
			text: "This note has #tag and #OtherTag in it.",
			want: []string{"tag", "othertag"},
		},
		{
			name: "punctuation trimmed and duplicates collapsed",
			text: "#tag, #tag! and also #second_tag.",
			want: []string{"tag", "second_tag"},
		},
		{
			name: "digits and underscores allowed",
			text: "#v2_release and #2026goals",
			want: []string{"v2_release", "2026goals"},
		},
		{
			name: "bare hash ignored",
			text: "# not a tag, #real one",
			want: []string{"real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hashtags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hashtags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
