package domain

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoData is returned by Process when pagination yielded zero records.
// Callers must not write output files in that case.
var ErrNoData = errors.New("no records to process")

// Process flattens raw NEO records into export rows, preserving input order.
func Process(records []RawRecord) (Dataset, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	rows := make(Dataset, 0, len(records))
	for _, rec := range records {
		rows = append(rows, flattenRecord(rec))
	}
	return rows, nil
}

// flattenRecord extracts the export fields from one nested record. A missing
// or unparsable value yields a nil (missing) field, never an error.
func flattenRecord(rec RawRecord) Row {
	minKM := lookupFloat(rec, "estimated_diameter", "kilometers", "estimated_diameter_min")
	maxKM := lookupFloat(rec, "estimated_diameter", "kilometers", "estimated_diameter_max")

	return Row{
		AsteroidID:        lookupString(rec, "id"),
		Name:              lookupString(rec, "name"),
		AbsoluteMagnitude: lookupFloat(rec, "absolute_magnitude_h"),
		DiameterMinKM:     minKM,
		DiameterMaxKM:     maxKM,
		Hazardous:         lookupBool(rec, "is_potentially_hazardous_asteroid"),
		OrbitID:           lookupString(rec, "orbital_data", "orbit_id"),
		SemiMajorAxisAU:   lookupFloat(rec, "orbital_data", "semi_major_axis"),
		Eccentricity:      lookupFloat(rec, "orbital_data", "eccentricity"),
		DiameterAvgKM:     averageDiameter(minKM, maxKM),
	}
}

// averageDiameter derives (min+max)/2, or missing if either operand is missing.
func averageDiameter(minKM, maxKM *float64) *float64 {
	if minKM == nil || maxKM == nil {
		return nil
	}
	avg := (*minKM + *maxKM) / 2
	return &avg
}

// lookup walks a dotted path through nested objects. Any absent segment or
// non-object intermediate yields (nil, false).
func lookup(rec map[string]any, path ...string) (any, bool) {
	var current any = rec
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// lookupFloat coerces a value to float64. The API mixes JSON numbers
// (magnitudes, diameters) and numeric strings (orbital elements); anything
// else becomes missing.
func lookupFloat(rec map[string]any, path ...string) *float64 {
	raw, ok := lookup(rec, path...)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func lookupString(rec map[string]any, path ...string) string {
	raw, ok := lookup(rec, path...)
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func lookupBool(rec map[string]any, path ...string) bool {
	raw, ok := lookup(rec, path...)
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}
