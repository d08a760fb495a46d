package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The upserters translate mapper values into column assignments. Every
// accepted key is converted through one of these helpers so a mapping bug
// surfaces as a typed error instead of a driver error.

func fieldError(table, key string, v any) error {
	return fmt.Errorf("persistence: %s field %q has unexpected type %T", table, key, v)
}

func asString(table, key string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fieldError(table, key, v)
}

func asBool(table, key string, v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fieldError(table, key, v)
}

func asDecimal(table, key string, v any) (decimal.Decimal, error) {
	if d, ok := v.(decimal.Decimal); ok {
		return d, nil
	}
	return decimal.Zero, fieldError(table, key, v)
}

func asTime(table, key string, v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return time.Time{}, fieldError(table, key, v)
}

func asUUID(table, key string, v any) (uuid.UUID, error) {
	if id, ok := v.(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, fieldError(table, key, v)
}

// asUUIDPtr accepts nil, uuid.UUID and *uuid.UUID; nil clears the column.
func asUUIDPtr(table, key string, v any) (*uuid.UUID, error) {
	switch id := v.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return &id, nil
	case *uuid.UUID:
		return id, nil
	}
	return nil, fieldError(table, key, v)
}

func asIDList(table, key string, v any) ([]uuid.UUID, error) {
	switch ids := v.(type) {
	case nil:
		return nil, nil
	case []uuid.UUID:
		return ids, nil
	}
	return nil, fieldError(table, key, v)
}

// mergeIDs unions two id lists preserving order of first appearance.
func mergeIDs(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a)+len(b))
	out := make([]uuid.UUID, 0, len(a)+len(b))
	for _, id := range append(append([]uuid.UUID{}, a...), b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
