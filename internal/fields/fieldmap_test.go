package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldMap(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		values string
		want   []FieldUpdate
	}{
		{
			name:   "empty keys and values",
			keys:   "",
			values: "",
			want:   []FieldUpdate{},
		},
		{
			name:   "single pair",
			keys:   "key1",
			values: "value1",
			want:   []FieldUpdate{{Key: "key1", Value: "value1"}},
		},
		{
			name:   "empty value skips its key",
			keys:   "key1,key2,key3",
			values: "value1,,value3",
			want:   []FieldUpdate{{Key: "key1", Value: "value1"}, {Key: "key3", Value: "value3"}},
		},
		{
			name:   "more values than keys",
			keys:   "key1,key2",
			values: "value1,value2,value3",
			want:   []FieldUpdate{{Key: "key1", Value: "value1"}, {Key: "key2", Value: "value2"}},
		},
		{
			name:   "fewer values than keys",
			keys:   "key1,key2,key3",
			values: "value1,value2",
			want:   []FieldUpdate{{Key: "key1", Value: "value1"}, {Key: "key2", Value: "value2"}},
		},
		{
			name:   "duplicate key keeps first position and last value",
			keys:   "key1,key2,key1",
			values: "a,b,c",
			want:   []FieldUpdate{{Key: "key1", Value: "c"}, {Key: "key2", Value: "b"}},
		},
		{
			name:   "values kept verbatim",
			keys:   "Status,Estimate",
			values: " In Progress ,[2]",
			want:   []FieldUpdate{{Key: "Status", Value: " In Progress "}, {Key: "Estimate", Value: "[2]"}},
		},
		{
			name:   "keys without any values",
			keys:   "key1,key2",
			values: "",
			want:   []FieldUpdate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFieldMap(tt.keys, tt.values))
		})
	}
}

func TestParseFieldMapEqualLengthsKeepsEveryPair(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	values := []string{"1", "two", "[3]", "2024-01-01", "Done"}

	got := ParseFieldMap("a,b,c,d,e", "1,two,[3],2024-01-01,Done")
	if assert.Len(t, got, len(keys)) {
		for i := range keys {
			assert.Equal(t, FieldUpdate{Key: keys[i], Value: values[i]}, got[i])
		}
	}
}
