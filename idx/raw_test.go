package idx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecord_DecodedFromJSON(t *testing.T) {
	var r RawRecord
	err := json.Unmarshal([]byte(`{
		"listingID": "a123",
		"listPrice": 850000,
		"totalBaths": "2.5",
		"pool": "Y",
		"remarksConcat": null
	}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "a123", r.ExternalID())
	assert.Equal(t, 850000, r.intField("listPrice"))
	assert.Equal(t, 2.5, r.floatField("totalBaths"))
	assert.Equal(t, "Y", r.str("pool"))
	assert.Equal(t, "", r.str("remarksConcat"), "json null reads as absent")
}

func TestRawRecord_FirstSkipsFalsyValues(t *testing.T) {
	r := RawRecord{
		"a": "",
		"b": float64(0),
		"c": false,
		"d": nil,
		"e": "value",
	}
	got, ok := r.first("a", "b", "c", "d", "e")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = r.first("a", "b", "c", "d")
	assert.False(t, ok, "all-falsy chain reads as absent")

	_, ok = r.first("missing")
	assert.False(t, ok)
}

func TestRawRecord_NumericCoercion(t *testing.T) {
	r := RawRecord{
		"float":    float64(3.9),
		"intStr":   "42",
		"floatStr": "3.9",
		"garbage":  "soon",
		"negative": float64(-5),
		"lat":      "-117.85",
	}
	assert.Equal(t, 3, r.intField("float"), "floats truncate")
	assert.Equal(t, 42, r.intField("intStr"))
	assert.Equal(t, 3, r.intField("floatStr"))
	assert.Equal(t, 0, r.intField("garbage"))
	assert.Equal(t, 0, r.intField("negative"), "counts clamp at zero")
	assert.Equal(t, 0.0, r.floatField("negative"))
	assert.Equal(t, -117.85, r.geoField("lat"), "coordinates keep their sign")
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "hello", asString("hello"))
	assert.Equal(t, "850000", asString(float64(850000)))
	assert.Equal(t, "2.5", asString(float64(2.5)))
	assert.Equal(t, "true", asString(true))
	assert.Equal(t, "", asString([]any{"not", "scalar"}))
}
