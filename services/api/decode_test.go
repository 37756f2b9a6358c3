package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		body string
		keys []string
		want []named
	}{
		{"bare array", `[{"id":1,"nombre":"a"}]`, nil, []named{{1, "a"}}},
		{"data envelope", `{"data":[{"id":2,"nombre":"b"}],"total":1}`, nil, []named{{2, "b"}}},
		{"named key", `{"message":"ok","recursos":[{"id":3,"nombre":"c"}]}`, []string{"recursos"}, []named{{3, "c"}}},
		{"named key beats first array", `{"otros":[{"id":9}],"tipos":[{"id":4,"nombre":"d"}]}`, []string{"tipos"}, []named{{4, "d"}}},
		{"first array in document order", `{"meta":{"page":1},"b":[{"id":5}],"a":[{"id":6}]}`, nil, []named{{ID: 5}}},
		{"no array", `{"message":"nothing"}`, nil, nil},
		{"null", `null`, nil, nil},
		{"empty", ``, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []named
			require.NoError(t, DecodeList([]byte(tt.body), &out, tt.keys...))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDecodeListRejectsScalars(t *testing.T) {
	var out []named
	assert.Error(t, DecodeList([]byte(`"text"`), &out))
}

func TestDecodeItem(t *testing.T) {
	tests := []struct {
		name string
		body string
		keys []string
		want named
	}{
		{"plain", `{"id":1,"nombre":"a"}`, []string{"data"}, named{1, "a"}},
		{"wrapped", `{"message":"ok","recurso":{"id":2,"nombre":"b"}}`, []string{"data", "recurso"}, named{2, "b"}},
		{"empty", ``, []string{"data"}, named{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out named
			require.NoError(t, DecodeItem([]byte(tt.body), &out, tt.keys...))
			assert.Equal(t, tt.want, out)
		})
	}
}
