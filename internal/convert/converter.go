package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
	_ "time/tzdata"

	"github.com/TWRT/mstodo/internal/models"
)

// Mapping is a decoded JSON object as exchanged with the API.
type Mapping = map[string]any

// Converter transforms one wire value into one in-memory value and back.
// Implementations are stateless and shared between fields.
type Converter interface {
	FromWire(wire any) (any, error)
	ToWire(value any) (any, error)
}

const (
	graphDateTimeLayout    = "2006-01-02T15:04:05.9999999"
	graphDateTimeOutLayout = "2006-01-02T15:04:05.000000"
	isoTimeOutLayout       = "2006-01-02T15:04:05Z"
	dateLayout             = "2006-01-02"
)

var (
	Identity Converter = identityConverter{}
	String   Converter = stringConverter{}
	Int      Converter = intConverter{}
	Boolean  Converter = booleanConverter{}
	// Datetime handles {"dateTime": ..., "timeZone": ...} objects.
	Datetime Converter = datetimeConverter{}
	// IsoTime handles RFC 3339 strings and always writes UTC.
	IsoTime Converter = isoTimeConverter{}
	Date    Converter = dateConverter{}
	Content Converter = contentConverter{}
)

type identityConverter struct{}

func (identityConverter) FromWire(wire any) (any, error) { return wire, nil }

func (identityConverter) ToWire(value any) (any, error) { return value, nil }

type stringConverter struct{}

func (stringConverter) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	default:
		return nil, parseError("string", wire, nil)
	}
}

func (stringConverter) ToWire(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("string converter got %T", value)
	}
}

type intConverter struct{}

func (intConverter) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return nil, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, parseError("integer", wire, nil)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, parseError("integer", wire, err)
		}
		return int(n), nil
	default:
		return nil, parseError("integer", wire, nil)
	}
}

func (intConverter) ToWire(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return nil, fmt.Errorf("integer converter got %T", value)
	}
}

type booleanConverter struct{}

// FromWire reads any JSON value by truthiness: null, false, zero, "" and
// empty arrays or objects are false.
func (booleanConverter) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		return v != "", nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, parseError("boolean", wire, err)
		}
		return f != 0, nil
	case []any:
		return len(v) > 0, nil
	case map[string]any:
		return len(v) > 0, nil
	default:
		return true, nil
	}
}

func (booleanConverter) ToWire(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	default:
		return nil, fmt.Errorf("boolean converter got %T", value)
	}
}

type datetimeConverter struct{}

func (datetimeConverter) FromWire(wire any) (any, error) {
	if wire == nil {
		return nil, nil
	}
	m, ok := wire.(map[string]any)
	if !ok {
		return nil, parseError("datetime", wire, nil)
	}
	if len(m) == 0 {
		return nil, nil
	}
	raw, ok := m["dateTime"].(string)
	if !ok || raw == "" {
		return nil, parseError("datetime", wire, nil)
	}

	loc := time.UTC
	if zone, _ := m["timeZone"].(string); zone != "" {
		loc = resolveZone(zone)
	}

	t, err := time.ParseInLocation(graphDateTimeLayout, raw, loc)
	if err != nil {
		withOffset, rfcErr := time.Parse(time.RFC3339Nano, raw)
		if rfcErr != nil {
			return nil, parseError("datetime", raw, err)
		}
		t = withOffset.In(loc)
	}
	return t, nil
}

func (datetimeConverter) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("datetime converter got %T", value)
	}
	t = inNamedZone(t)
	return Mapping{
		"dateTime": t.Format(graphDateTimeOutLayout),
		"timeZone": t.Location().String(),
	}, nil
}

// inNamedZone returns t in a location the API can resolve by name. Local
// and fixed offsets are written as UTC.
func inNamedZone(t time.Time) time.Time {
	loc := t.Location()
	if loc == time.UTC || loc == time.Local {
		return t.UTC()
	}
	if _, err := time.LoadLocation(loc.String()); err != nil {
		return t.UTC()
	}
	return t
}

type isoTimeConverter struct{}

func (isoTimeConverter) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, parseError("iso time", v, err)
		}
		return t, nil
	default:
		return nil, parseError("iso time", wire, nil)
	}
}

func (isoTimeConverter) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("iso time converter got %T", value)
	}
	return t.UTC().Format(isoTimeOutLayout), nil
}

type dateConverter struct{}

func (dateConverter) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		if len(v) > len(dateLayout) {
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, parseError("date", v, err)
			}
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, parseError("date", v, err)
		}
		return t, nil
	default:
		return nil, parseError("date", wire, nil)
	}
}

func (dateConverter) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("date converter got %T", value)
	}
	return t.Format(dateLayout), nil
}

type contentConverter struct{}

func (contentConverter) FromWire(wire any) (any, error) {
	empty := models.Content{Type: models.ContentTypeHTML}
	if wire == nil {
		return empty, nil
	}
	m, ok := wire.(map[string]any)
	if !ok {
		return nil, parseError("content", wire, nil)
	}
	if len(m) == 0 {
		return empty, nil
	}

	content := empty
	if v, ok := m["content"].(string); ok {
		content.Value = v
	}
	if raw, ok := m["contentType"].(string); ok && raw != "" {
		ct := models.ContentType(raw)
		if !slices.Contains(models.ContentTypes, ct) {
			return nil, fmt.Errorf("content type %q: %w", raw, ErrUnknownEnumValue)
		}
		content.Type = ct
	}
	return content, nil
}

func (contentConverter) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	c, ok := value.(models.Content)
	if !ok {
		return nil, fmt.Errorf("content converter got %T", value)
	}
	ct := c.Type
	if ct == "" {
		ct = models.ContentTypeHTML
	}
	return Mapping{"content": c.Value, "contentType": string(ct)}, nil
}

type enumConverter[T ~string] struct {
	allowed []T
}

// Enum converts wire strings into T, rejecting values outside allowed.
func Enum[T ~string](allowed ...T) Converter {
	return enumConverter[T]{allowed: slices.Clone(allowed)}
}

func (c enumConverter[T]) FromWire(wire any) (any, error) {
	switch v := wire.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		if !slices.Contains(c.allowed, T(v)) {
			return nil, fmt.Errorf("%q: %w", v, ErrUnknownEnumValue)
		}
		return T(v), nil
	default:
		return nil, parseError("enum", wire, nil)
	}
}

func (c enumConverter[T]) ToWire(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case T:
		return string(v), nil
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("enum converter got %T", value)
	}
}

type listConverter[T any] struct {
	inner Converter
}

// ListOf converts JSON arrays element by element with inner, producing []T.
func ListOf[T any](inner Converter) Converter {
	return listConverter[T]{inner: inner}
}

func (c listConverter[T]) FromWire(wire any) (any, error) {
	if wire == nil {
		return nil, nil
	}
	items, ok := wire.([]any)
	if !ok {
		return nil, parseError("list", wire, nil)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := c.inner.FromWire(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if v == nil {
			var zero T
			out = append(out, zero)
			continue
		}
		typed, ok := v.(T)
		if !ok {
			return nil, parseError("list element", item, nil)
		}
		out = append(out, typed)
	}
	return out, nil
}

func (c listConverter[T]) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]T)
	if !ok {
		return nil, fmt.Errorf("list converter got %T", value)
	}
	if items == nil {
		return nil, nil
	}
	out := make([]any, 0, len(items))
	for i, item := range items {
		w, err := c.inner.ToWire(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}
