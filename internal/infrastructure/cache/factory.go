package cache

import (
	"fmt"

	"github.com/coopfin/backend/internal/application/confirmation"
)

// InvalidatorType identifies the view invalidator backend
type InvalidatorType string

const (
	InvalidatorTypeMemory InvalidatorType = "memory"
	InvalidatorTypeRedis  InvalidatorType = "redis"
)

// NewViewInvalidator creates a view invalidator of the given type
func NewViewInvalidator(invalidatorType InvalidatorType, redisCfg RedisConfig) (confirmation.Invalidator, error) {
	switch invalidatorType {
	case InvalidatorTypeMemory:
		return NewMemoryViewInvalidator(), nil
	case InvalidatorTypeRedis:
		return NewRedisViewInvalidator(redisCfg)
	default:
		return nil, fmt.Errorf("unknown invalidator type: %s", invalidatorType)
	}
}

var (
	_ confirmation.Invalidator = (*MemoryViewInvalidator)(nil)
	_ confirmation.Invalidator = (*RedisViewInvalidator)(nil)
)
