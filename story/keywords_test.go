package story

import (
	"reflect"
	"testing"
)

func TestKeywords(t *testing.T) {
	stop := map[string]bool{"tell": true, "about": true, "this": true, "that": true}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"drops stop words and short tokens", "tell me about dragons and castles", []string{"dragons", "castles"}},
		{"keeps the first three", "wizards dragons castles knights", []string{"wizards", "dragons", "castles"}},
		{"short tokens only", "a an me we it", nil},
		{"lowercases", "Tell me about DRAGONS", []string{"dragons"}},
		{"empty input", "", nil},
		{"stop words only", "tell about this that", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Keywords(tt.in, stop); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeywordsDeterministic(t *testing.T) {
	stop := map[string]bool{}
	in := "silver rivers crossing golden valleys"
	first := Keywords(in, stop)
	for i := 0; i < 10; i++ {
		if got := Keywords(in, stop); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v differs from %v", i, got, first)
		}
	}
}
