package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// BankItemKey returns the cache key for a single question-bank item.
func (r *CacheKeyStruct) BankItemKey(itemID string) string {
	return fmt.Sprintf("bank:item:%s", itemID)
}

// ExamMonitorChannel returns the Redis PubSub channel name for an
// exam's live attempt-event stream.
func (r *CacheKeyStruct) ExamMonitorChannel(examID string) string {
	return fmt.Sprintf("exam:%s:monitor", examID)
}

var CacheKey = NewCacheKeyStruct()
