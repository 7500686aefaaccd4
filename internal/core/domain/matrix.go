package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MatrixUnitPolicy says how to read numbers in a matrix response.
type MatrixUnitPolicy string

const (
	MatrixUnitsMeters     MatrixUnitPolicy = "meters"
	MatrixUnitsKilometers MatrixUnitPolicy = "kilometers"
	// MatrixUnitsAuto treats values above 1000 as meters and the rest as
	// kilometers. A 1200 km leg reads as 1.2 km, so it is opt-in only.
	MatrixUnitsAuto MatrixUnitPolicy = "auto"
)

// ParseMatrixUnitPolicy accepts the configured policy name.
func ParseMatrixUnitPolicy(s string) (MatrixUnitPolicy, error) {
	switch p := MatrixUnitPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MatrixUnitsMeters, nil
	case MatrixUnitsMeters, MatrixUnitsKilometers, MatrixUnitsAuto:
		return p, nil
	default:
		return "", fmt.Errorf("unknown matrix unit policy %q", s)
	}
}

// ToKm converts one raw matrix value.
func (p MatrixUnitPolicy) ToKm(v float64) float64 {
	switch p {
	case MatrixUnitsKilometers:
		return v
	case MatrixUnitsAuto:
		if v > 1000 {
			return v / 1000
		}
		return v
	default:
		return v / 1000
	}
}

// Matrix response field names, in lookup order.
var matrixFields = []string{"distances", "distance", "matrix"}

// ErrMatrixShape is returned when no known distance field can be read.
var ErrMatrixShape = errors.New("unrecognized matrix response shape")

// MatrixRow is the origin row of a parsed matrix response.
type MatrixRow struct {
	// Field is the response field the row was read from.
	Field string
	Units MatrixUnitPolicy
	// Km holds the distances from the origin to every point, origin included.
	Km []float64
}

// ParseMatrixRow reads the first row of a distance matrix. A unit or units
// field in the body overrides policy.
func ParseMatrixRow(body []byte, policy MatrixUnitPolicy) (MatrixRow, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return MatrixRow{}, fmt.Errorf("%w: %v", ErrMatrixShape, err)
	}

	units := policy
	for _, k := range []string{"unit", "units"} {
		raw, ok := doc[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return MatrixRow{}, fmt.Errorf("%w: %s is not a string", ErrMatrixShape, k)
		}
		u, err := unitFromResponse(s)
		if err != nil {
			return MatrixRow{}, err
		}
		units = u
		break
	}

	for _, field := range matrixFields {
		raw, ok := doc[field]
		if !ok || isEmptyJSON(raw) {
			continue
		}
		var rows [][]float64
		if err := json.Unmarshal(raw, &rows); err != nil {
			return MatrixRow{}, fmt.Errorf("%w: field %q: %v", ErrMatrixShape, field, err)
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			return MatrixRow{}, fmt.Errorf("%w: field %q has no rows", ErrMatrixShape, field)
		}
		km := make([]float64, len(rows[0]))
		for i, v := range rows[0] {
			km[i] = units.ToKm(v)
		}
		return MatrixRow{Field: field, Units: units, Km: km}, nil
	}

	return MatrixRow{}, fmt.Errorf("%w: none of %v present", ErrMatrixShape, matrixFields)
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "[]"
}

func unitFromResponse(s string) (MatrixUnitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters", "metre", "metres":
		return MatrixUnitsMeters, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return MatrixUnitsKilometers, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", ErrMatrixShape, s)
	}
}
