package normalizer

import (
	"slices"
	"testing"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "first occurrence order", text: "연차 휴가 신청", want: []string{"연차", "휴가", "신청"}},
		{name: "frequency first", text: "휴가 연차 연차 신청 휴가 연차", want: []string{"연차", "휴가", "신청"}},
		{name: "limit", text: "a b c d", limit: 2, want: []string{"a", "b"}},
		{name: "default limit", text: "1 2 3 4 5 6 7 8 9 10 11 12", want: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Keywords(tt.text, tt.limit); !slices.Equal(got, tt.want) {
				t.Errorf("Keywords(%q, %d) = %v, want %v", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}
