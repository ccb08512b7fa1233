package middleware

import "github.com/gin-gonic/gin"

// NoStore disables every layer of HTTP caching on the API surface. The list
// view must always reflect the latest writes, so responses are marked
// uncacheable on all methods, not just writes.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("Surrogate-Control", "no-store")
		c.Next()
	}
}
