package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/TWRT/mstodo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityConverterReturnsInput(t *testing.T) {
	data := Mapping{"a": 1.0}

	from, err := Identity.FromWire(data)
	require.NoError(t, err)
	assert.Equal(t, data, from)

	back, err := Identity.ToWire(data)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestIntConverter(t *testing.T) {
	tests := []struct {
		name string
		wire any
		want any
	}{
		{name: "float from encoding/json", wire: 3.0, want: 3},
		{name: "json number", wire: json.Number("15"), want: 15},
		{name: "int", wire: 7, want: 7},
		{name: "null", wire: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Int.FromWire(tt.wire)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Int.FromWire(1.5)
	assert.ErrorIs(t, err, ErrParse)
	_, err = Int.FromWire("3")
	assert.ErrorIs(t, err, ErrParse)
}

func TestBooleanConverter(t *testing.T) {
	v, err := Boolean.FromWire(true)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Boolean.FromWire(nil)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	for name, tt := range map[string]struct {
		in   any
		want bool
	}{
		"non-empty string": {"true", true},
		"empty string":     {"", false},
		"zero":             {float64(0), false},
		"number":           {float64(2), true},
		"json number":      {json.Number("1"), true},
		"empty list":       {[]any{}, false},
		"list":             {[]any{1}, true},
		"empty object":     {map[string]any{}, false},
	} {
		got, err := Boolean.FromWire(tt.in)
		require.NoError(t, err, name)
		assert.Equal(t, tt.want, got, name)
	}
}

func TestDatetimeConverterFromWire(t *testing.T) {
	data := Mapping{"dateTime": "2020-05-21T10:00:00.0000000", "timeZone": "America/Bogota"}

	result, err := Datetime.FromWire(data)
	require.NoError(t, err)

	expected := time.Date(2020, 5, 21, 15, 0, 0, 0, time.UTC)
	assert.True(t, expected.Equal(result.(time.Time)), "got %v", result)
}

func TestDatetimeConverterWithoutData(t *testing.T) {
	for _, data := range []any{nil, Mapping{}} {
		result, err := Datetime.FromWire(data)
		require.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestDatetimeConverterToWire(t *testing.T) {
	result, err := Datetime.ToWire(time.Date(2020, 5, 21, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Mapping{"dateTime": "2020-05-21T15:00:00.000000", "timeZone": "UTC"}, result)
}

func TestDatetimeConverterKeepsNamedZone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	result, err := Datetime.ToWire(time.Date(2020, 5, 21, 10, 0, 0, 0, bogota))
	require.NoError(t, err)
	assert.Equal(t, Mapping{"dateTime": "2020-05-21T10:00:00.000000", "timeZone": "America/Bogota"}, result)
}

func TestDatetimeConverterRejectsMalformed(t *testing.T) {
	_, err := Datetime.FromWire(Mapping{"dateTime": "yesterday", "timeZone": "UTC"})
	assert.ErrorIs(t, err, ErrParse)
}

func TestDatetimeConverterWindowsZones(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	result, err := Datetime.FromWire(Mapping{"dateTime": "2020-05-21T10:00:00.0000000", "timeZone": "W. Europe Standard Time"})
	require.NoError(t, err)
	assert.True(t, time.Date(2020, 5, 21, 10, 0, 0, 0, berlin).Equal(result.(time.Time)))
	assert.Equal(t, "Europe/Berlin", result.(time.Time).Location().String())

	result, err = Datetime.FromWire(Mapping{"dateTime": "2020-05-21T10:00:00", "timeZone": "Pacific Standard Time"})
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", result.(time.Time).Location().String())
}

func TestDatetimeConverterUnknownZoneIsUTC(t *testing.T) {
	result, err := Datetime.FromWire(Mapping{"dateTime": "2020-05-21T10:00:00", "timeZone": "Nowhere/Land"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 5, 21, 10, 0, 0, 0, time.UTC), result)
}

func TestWindowsZonesResolve(t *testing.T) {
	for windows, iana := range windowsZones {
		_, err := time.LoadLocation(iana)
		assert.NoError(t, err, windows)
	}
}

func TestIsoTimeConverter(t *testing.T) {
	result, err := IsoTime.FromWire("2020-01-01T18:00:00Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2020, 1, 1, 18, 0, 0, 0, time.UTC).Equal(result.(time.Time)))

	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	back, err := IsoTime.ToWire(time.Date(2020, 1, 1, 18, 0, 0, 0, plusTwo))
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T16:00:00Z", back)

	back, err = IsoTime.ToWire(nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

func TestDateConverter(t *testing.T) {
	result, err := Date.FromWire("2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), result)

	result, err = Date.FromWire("2020-04-08T16:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 4, 8, 0, 0, 0, 0, time.UTC), result)

	back, err := Date.ToWire(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", back)
}

func TestContentConverter(t *testing.T) {
	for _, data := range []any{nil, Mapping{}} {
		result, err := Content.FromWire(data)
		require.NoError(t, err)
		assert.Equal(t, models.Content{Type: models.ContentTypeHTML}, result)
	}

	for _, ct := range models.ContentTypes {
		result, err := Content.FromWire(Mapping{"content": "The description", "contentType": string(ct)})
		require.NoError(t, err)
		assert.Equal(t, models.Content{Value: "The description", Type: ct}, result)
	}

	back, err := Content.ToWire(models.Content{Value: "The description", Type: models.ContentTypeText})
	require.NoError(t, err)
	assert.Equal(t, Mapping{"content": "The description", "contentType": "text"}, back)

	back, err = Content.ToWire(models.Content{Value: "untyped"})
	require.NoError(t, err)
	assert.Equal(t, Mapping{"content": "untyped", "contentType": "html"}, back)
}

type exampleEnum string

const (
	exampleVal1 exampleEnum = "val1"
	exampleVal2 exampleEnum = "val2"
)

func TestEnumConverter(t *testing.T) {
	conv := Enum(exampleVal1, exampleVal2)

	tests := []struct {
		wire any
		want any
	}{
		{wire: "val1", want: exampleVal1},
		{wire: "val2", want: exampleVal2},
		{wire: nil, want: nil},
	}
	for _, tt := range tests {
		got, err := conv.FromWire(tt.wire)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	back, err := conv.ToWire(exampleVal2)
	require.NoError(t, err)
	assert.Equal(t, "val2", back)

	_, err = conv.FromWire("val3")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestListConverter(t *testing.T) {
	conv := ListOf[exampleEnum](Enum(exampleVal1, exampleVal2))

	got, err := conv.FromWire([]any{"val1", "val2"})
	require.NoError(t, err)
	assert.Equal(t, []exampleEnum{exampleVal1, exampleVal2}, got)

	got, err = conv.FromWire([]any{})
	require.NoError(t, err)
	assert.Equal(t, []exampleEnum{}, got)

	got, err = conv.FromWire(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	back, err := conv.ToWire([]exampleEnum{exampleVal1, exampleVal2})
	require.NoError(t, err)
	assert.Equal(t, []any{"val1", "val2"}, back)

	back, err = conv.ToWire([]exampleEnum{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, back)

	_, err = conv.FromWire([]any{"val1", "nope"})
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}
