package redis

import (
	"fmt"
	"strings"
)

// Key prefix for all match-history data
const keyPrefix = "ttt"

// resultsKey returns the Redis key for the results list
func resultsKey() string {
	return fmt.Sprintf("%s:results", keyPrefix)
}

// tallyKey returns the Redis key for a player's tally hash
func tallyKey(name string) string {
	return fmt.Sprintf("%s:tally:%s", keyPrefix, strings.ToLower(name))
}
