package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Options controls the CORS policy. Empty fields fall back to the
// defaults below; an empty origin list allows every origin.
type Options struct {
	AllowedOrigins []string
	AllowedHeaders []string
	AllowedMethods []string
}

var (
	defaultHeaders = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}
	defaultMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
)

// New returns a CORS middleware honoring the given options.
func New(opts Options) gin.HandlerFunc {
	allowAll := len(opts.AllowedOrigins) == 0
	originSet := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	headers := opts.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultHeaders
	}
	methods := opts.AllowedMethods
	if len(methods) == 0 {
		methods = defaultMethods
	}
	headerList := strings.Join(headers, ", ")
	methodList := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll || hasOrigin(originSet, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", headerList)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodList)
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	if len(originSet) == 0 {
		return true
	}

	origin = strings.TrimRight(origin, "/")
	_, ok := originSet[origin]
	return ok
}
