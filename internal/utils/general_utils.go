package utils

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Paginate builds a gorm scope from 1-based page and size.
func Paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = 10
		}
		offset := (page - 1) * size
		return db.Offset(offset).Limit(size)
	}
}

// GetUserIdFromContext returns the authenticated user id set by the auth
// middleware, or 0 when missing.
func GetUserIdFromContext(ctx *gin.Context) uint {
	value, exists := ctx.Get("user_id")
	if !exists {
		return 0
	}
	userID, ok := value.(uint)
	if !ok {
		return 0
	}
	return userID
}
