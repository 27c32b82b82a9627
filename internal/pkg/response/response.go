// Package response defines the JSON envelope every handler replies with:
// {"success": bool, "data": ...} or {"success": false, "error": {...}}, plus
// a warning variant for changes that took effect but could not be persisted.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessWithWarning reports a request that was applied but left a follow-up
// condition behind, typically state committed in memory whose durable save
// failed. The data is real; the warning tells the client what to re-check.
func SuccessWithWarning(c *gin.Context, statusCode int, data any, code, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
		"warning": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
