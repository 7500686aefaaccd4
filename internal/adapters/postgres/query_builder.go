package postgres_adapter

import (
	"encoding/json"
	"fmt"
	"search-service/internal/core/domain"
	"strings"
)

const listingColumns = `p.id::text, p.user_id::text, p.title, COALESCE(p.description, ''), p.location,
	p.price::float8, COALESCE(p.house_type, ''), p.bedrooms,
	COALESCE(p.amenities, '[]'::jsonb), COALESCE(p.photos, '[]'::jsonb), p.status::text,
	p.lat, p.lon, p.created_at, p.updated_at`

// amenities are matched case-insensitively; the filter side is already lower-cased
const amenitiesContainExpr = `COALESCE((SELECT jsonb_agg(lower(a)) FROM jsonb_array_elements_text(p.amenities) a), '[]'::jsonb) @> $%d::jsonb`

type queryBuilder struct {
	distanceExpr string
	conditions   []string
	orderBy      []string
	args         []interface{}
	argId        int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:        1,
		distanceExpr: "0.0::float8",
		conditions:   []string{"p.status = 'APPROVED'"},
		args:         make([]interface{}, 0),
	}
}

// nextArg binds arg and returns its placeholder.
func (qb *queryBuilder) nextArg(arg interface{}) string {
	qb.args = append(qb.args, arg)
	placeholder := fmt.Sprintf("$%d", qb.argId)
	qb.argId++
	return placeholder
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// withDistanceFrom measures distance from origin in kilometers and keeps
// rows within maxKm. Rows without coordinates never match.
func (qb *queryBuilder) withDistanceFrom(origin domain.GeoPoint, maxKm float64) {
	lat := qb.nextArg(origin.Lat)
	lon := qb.nextArg(origin.Lon)
	meters := fmt.Sprintf("earth_distance(ll_to_earth(p.lat, p.lon), ll_to_earth(%s, %s))", lat, lon)
	qb.distanceExpr = "(" + meters + " / 1000.0)"
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s <= %s", meters, qb.nextArg(maxKm*1000.0)))
}

func (qb *queryBuilder) build() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(listingColumns)
	sb.WriteString(", ")
	sb.WriteString(qb.distanceExpr)
	sb.WriteString(" AS distance_km FROM properties p WHERE ")
	sb.WriteString(strings.Join(qb.conditions, " AND "))
	if len(qb.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(qb.orderBy, ", "))
	}
	return sb.String()
}

// buildSearchQuery turns a validated filter into SQL plus bound arguments.
// origin must be set when the filter is distance scoped.
func buildSearchQuery(filter domain.SearchFilter, origin *domain.GeoPoint) (string, []interface{}, error) {
	qb := newQueryBuilder()

	scoped := filter.DistanceScoped()
	if scoped {
		if origin == nil {
			return "", nil, fmt.Errorf("distance scoped search needs an origin")
		}
		qb.withDistanceFrom(*origin, *filter.MaxDistanceKm)
	}

	qb.AddFloatFilter("p.price", filter.MinPrice, filter.MaxPrice)

	if filter.HouseType != "" {
		qb.addCondition("%s = $%d", "p.house_type", filter.HouseType)
	}

	// bedrooms are part of the cache key only
	if len(filter.Amenities) > 0 {
		encoded, err := json.Marshal(filter.Amenities)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode amenities: %w", err)
		}
		qb.conditions = append(qb.conditions, fmt.Sprintf(amenitiesContainExpr, qb.argId))
		qb.args = append(qb.args, string(encoded))
		qb.argId++
	}

	switch {
	case filter.SortBy == domain.SortByDistance && scoped:
		qb.orderBy = []string{"distance_km ASC", "p.id ASC"}
	case filter.SortBy == domain.SortByPrice:
		qb.orderBy = []string{"p.price ASC", "p.id ASC"}
	default:
		qb.orderBy = []string{"p.id ASC"}
	}

	return qb.build(), qb.args, nil
}

// buildApprovedQuery lists every approved listing in id order.
func buildApprovedQuery() string {
	qb := newQueryBuilder()
	qb.orderBy = []string{"p.id ASC"}
	return qb.build()
}

// buildByIDQuery fetches one listing regardless of status, measured from origin.
func buildByIDQuery(id string, origin domain.GeoPoint) (string, []interface{}) {
	qb := &queryBuilder{argId: 1}
	lat := qb.nextArg(origin.Lat)
	lon := qb.nextArg(origin.Lon)
	qb.distanceExpr = fmt.Sprintf(
		"COALESCE(earth_distance(ll_to_earth(p.lat, p.lon), ll_to_earth(%s, %s)) / 1000.0, 0.0)", lat, lon)
	qb.conditions = []string{fmt.Sprintf("p.id::text = %s", qb.nextArg(id))}
	return qb.build(), qb.args
}
