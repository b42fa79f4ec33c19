package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	"stayledger/shared/dto"
	"stayledger/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional query flag. Empty or unparsable input yields nil.
func ConvertStringToBool(value string) *bool {
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Debug().Err(err).Str("value", value).Msg("ignoring malformed boolean")

		return nil
	}

	return &parsed
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns the set fields of a patch struct into UPDATE assignments keyed by their
// db tag and stamps the modification metadata. Nil pointers and zero values are skipped;
// pointers are dereferenced so an explicit false or 0 still applies.
func TransformFields(data any, username string) map[string]any {
	value := reflect.Indirect(reflect.ValueOf(data))
	typ := value.Type()

	fields := make(map[string]any, value.NumField()+2)

	for index := range value.NumField() {
		column := typ.Field(index).Tag.Get("db")
		if column == constant.Empty || column == "-" {
			continue
		}

		field := value.Field(index)
		if field.IsZero() {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		fields[column] = field.Interface()
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = username

	return fields
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

// BuildCacheKey joins the prefix and parts into a single cache key, e.g. "booking:get:<id>".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key for a list query from its pagination and filters.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode cache key arguments")
	}

	sum := sha256.Sum256([]byte(where + string(encodedArgs)))

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		hex.EncodeToString(sum[:8]),
	)
}

// InvalidateCaches removes every key stored under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, fmt.Sprintf("%s%s*", prefix, cacheKeySeparator)); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
