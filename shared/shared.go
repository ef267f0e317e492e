package shared

import (
	"context"
	"fmt"
	"math"
	"mawgifi/shared/cache"
	"mawgifi/shared/constant"
	"mawgifi/shared/dto"
	"mawgifi/shared/timezone"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey composes a cache key from an entity name and its parts,
// for example "space:list:area-1:page-1".
func BuildCacheKey(entity string, parts ...string) string {
	if len(parts) == 0 {
		return entity
	}

	return entity + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery appends pagination and sorting to a cache key so
// distinct listings never collide.
func BuildCacheKeyWithQuery(entity string, params dto.QueryParams, parts ...string) string {
	key := BuildCacheKey(entity, parts...)

	return fmt.Sprintf("%s:page-%d:limit-%d:sort-%s-%s", key, params.Page, params.Limit, params.SortBy, params.SortDir)
}

// InvalidateCaches clears every key under the given prefixes. Callers run it
// in a detached goroutine so invalidation never blocks the request.
func InvalidateCaches(ctx context.Context, redis cache.RedisCache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := redis.Clear(ctx, prefix+constant.Asterix); err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
		}
	}
}
