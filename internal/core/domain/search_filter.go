package domain

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sort keys accepted by search.
const (
	SortByDistance = "distance"
	SortByPrice    = "price"
)

// SearchFilter is the per-request search criteria. Construct it with
// NewSearchFilter so amenities are normalized.
type SearchFilter struct {
	Location      string
	MinPrice      *float64
	MaxPrice      *float64
	HouseType     string
	Amenities     []string
	Bedrooms      *int
	UseDistance   bool
	MaxDistanceKm *float64
	SortBy        string
}

// SearchFilterInput is the raw, unvalidated criteria.
type SearchFilterInput struct {
	Location      string
	MinPrice      *float64
	MaxPrice      *float64
	HouseType     string
	Amenities     []string
	Bedrooms      *int
	UseDistance   *bool
	MaxDistanceKm *float64
	SortBy        string
}

// NormalizeAmenities trims, lower-cases, de-duplicates and sorts amenities.
// Plain lowering keeps the result comparable with Postgres lower().
func NormalizeAmenities(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	lower := cases.Lower(language.Und) // a Caser is stateful, one per call
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = lower.String(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// NewSearchFilter validates and normalizes in. The price range and sort key
// are checked here so a bad combination never reaches the repository.
func NewSearchFilter(in SearchFilterInput) (SearchFilter, error) {
	f := SearchFilter{
		Location:      strings.TrimSpace(in.Location),
		MinPrice:      finiteOrNil(in.MinPrice),
		MaxPrice:      finiteOrNil(in.MaxPrice),
		HouseType:     strings.TrimSpace(in.HouseType),
		Amenities:     NormalizeAmenities(in.Amenities),
		Bedrooms:      in.Bedrooms,
		UseDistance:   true,
		MaxDistanceKm: finiteOrNil(in.MaxDistanceKm),
		SortBy:        strings.ToLower(strings.TrimSpace(in.SortBy)),
	}
	if in.UseDistance != nil {
		f.UseDistance = *in.UseDistance
	}
	if f.SortBy == "" {
		f.SortBy = SortByDistance
	}

	for _, num := range []struct {
		name string
		v    *float64
	}{
		{"min_price", in.MinPrice},
		{"max_price", in.MaxPrice},
		{"max_distance_km", in.MaxDistanceKm},
	} {
		if num.v != nil && (math.IsNaN(*num.v) || math.IsInf(*num.v, 0)) {
			return SearchFilter{}, fmt.Errorf("%w: %s must be a finite number", ErrInvalidFilter, num.name)
		}
	}
	if f.SortBy != SortByDistance && f.SortBy != SortByPrice {
		return SearchFilter{}, fmt.Errorf("%w: sort_by must be %q or %q", ErrInvalidFilter, SortByDistance, SortByPrice)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return SearchFilter{}, fmt.Errorf("%w: min_price cannot be greater than max_price", ErrInvalidFilter)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 || f.MaxPrice != nil && *f.MaxPrice < 0 {
		return SearchFilter{}, fmt.Errorf("%w: prices cannot be negative", ErrInvalidFilter)
	}
	if f.MaxDistanceKm != nil && *f.MaxDistanceKm <= 0 {
		return SearchFilter{}, fmt.Errorf("%w: max_distance_km must be positive", ErrInvalidFilter)
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return SearchFilter{}, fmt.Errorf("%w: bedrooms cannot be negative", ErrInvalidFilter)
	}
	return f, nil
}

// DistanceScoped reports whether results are restricted and measured by
// distance from the resolved location. Without a location and radius the
// flag is a no-op.
func (f SearchFilter) DistanceScoped() bool {
	return f.UseDistance && f.Location != "" && f.MaxDistanceKm != nil
}

// CacheKey derives the result cache key. Equal filters always produce the
// same key and different filters never share one; absent values render as "".
// Free text is query-escaped so ':' and ',' only ever appear as separators.
func (f SearchFilter) CacheKey() string {
	amenities := make([]string, len(f.Amenities))
	for i, a := range f.Amenities {
		amenities[i] = url.QueryEscape(a)
	}
	parts := []string{
		url.QueryEscape(f.Location),
		optFloat(f.MinPrice),
		optFloat(f.MaxPrice),
		url.QueryEscape(f.HouseType),
		strings.Join(amenities, ","),
		optInt(f.Bedrooms),
		strconv.FormatBool(f.UseDistance),
		optFloat(f.MaxDistanceKm),
		f.SortBy,
	}
	return SearchKeyPrefix + strings.Join(parts, ":")
}

// SearchKeyPrefix namespaces every per-filter cache entry.
const SearchKeyPrefix = "search:"

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// finiteOrNil copies v, turning -0 into 0. Non-finite values are rejected
// by NewSearchFilter before the copy is used.
func finiteOrNil(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	if c == 0 {
		c = 0
	}
	return &c
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
