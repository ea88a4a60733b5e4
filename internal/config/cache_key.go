package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// FlashKey returns the cache key holding a pending flash message for a browser.
func (r *CacheKeyStruct) FlashKey(flashID string) string {
	return fmt.Sprintf("flash:%s", flashID)
}

var CacheKey = NewCacheKeyStruct()
