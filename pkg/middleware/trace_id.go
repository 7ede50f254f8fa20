package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

type CtxKey string

const CtxKeyTraceID CtxKey = "trace_id"

// HeaderTraceID lets callers correlate responses with our logs.
const HeaderTraceID = "X-Trace-Id"

// TraceID tags every request with a ksuid, reusing the caller's one when the
// X-Trace-Id header is present.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderTraceID)
		if id == "" {
			id = ksuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), CtxKeyTraceID, id)
		c.Request = c.Request.Clone(ctx)
		c.Header(HeaderTraceID, id)

		c.Next()
	}
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyTraceID).(string)
	return id, ok && id != ""
}
