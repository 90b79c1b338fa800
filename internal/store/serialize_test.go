package store

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestStringListRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decode inverts encode", prop.ForAll(
		func(list []string) bool {
			return reflect.DeepEqual(decodeStringList(encodeStringList(list)), list)
		},
		gen.SliceOf(gen.AnyString()).SuchThat(func(v []string) bool {
			return v != nil
		}),
	))

	properties.TestingRun(t)
}

func TestEncodeStringList_Nil(t *testing.T) {
	if got := encodeStringList(nil); got != "[]" {
		t.Errorf("encodeStringList(nil) = %q, want []", got)
	}
}

func TestDecodeStringList_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty string", ""},
		{"not json", "oops"},
		{"json null", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeStringList(tt.in)
			if got == nil || len(got) != 0 {
				t.Errorf("decodeStringList(%q) = %#v, want empty non-nil slice", tt.in, got)
			}
		})
	}
}
