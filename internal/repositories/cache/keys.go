package cache

import "fmt"

type EntityType string

const (
	EntityTransaction EntityType = "transaction"
	EntityLogin       EntityType = "login"
)

type KeyType string

const (
	KeyStats    KeyType = "stats"
	KeyAttempts KeyType = "attempts"
	KeyLock     KeyType = "lock"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// StatsKey is the key of the cached transaction statistics.
var StatsKey = GenerateKey(EntityTransaction, KeyStats, "all")
