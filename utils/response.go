package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError carries a stable machine-readable error code next to the
// human-readable message.
func JSONError(c *gin.Context, status int, errCode, message string) {
	c.JSON(status, gin.H{"success": false, "error": errCode, "message": message})
}

// JSONValidationError returns field-level messages for malformed input.
func JSONValidationError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, gin.H{"success": false, "error": "validation_error", "message": message, "details": details})
}
