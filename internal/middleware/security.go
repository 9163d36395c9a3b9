package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// reportCSP allows the inline style and print button of rendered reports and
// nothing else.
var reportCSP = strings.Join([]string{
	"default-src 'none'",
	"style-src 'unsafe-inline'",
	"script-src 'unsafe-inline'",
	"img-src 'self' data:",
	"frame-ancestors 'none'",
}, "; ")

// SecurityHeaders sets the response headers every clinic response carries.
// Patient data must not be cached by intermediaries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Header("Content-Security-Policy", reportCSP)
		c.Next()
	}
}
