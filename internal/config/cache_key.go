package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active session jti.
func (r *CacheKeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("login:%d", userID)
}

// QuizPayloadKey returns the cache key for a published quiz's taker-facing payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID int64) string {
	return fmt.Sprintf("quiz:%d:payload", quizID)
}

var CacheKey = NewCacheKeyStruct()
