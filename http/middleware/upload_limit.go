package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// formOverhead leaves room for the text fields sent next to the image.
const formOverhead = 1 << 20

// UploadLimitMiddleware caps the request body so oversized multipart payloads
// fail while being parsed instead of being buffered to disk.
func UploadLimitMiddleware(maxImageBytes int64) gin.HandlerFunc {
	limit := maxImageBytes + formOverhead
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
