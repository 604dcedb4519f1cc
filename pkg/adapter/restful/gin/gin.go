// Package gin adapts the gin-gonic engine and provides the middlewares
// which are shared by all resources, so other packages do not need to
// import the gin-gonic package for instantiating an engine.
package gin

import (
	"log/slog"

	ginslog "github.com/FabienMht/ginslog/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/custfinder/pkg/core/log"
)

// RequestIDHeader is the header which carries the request identifier.
// Clients may provide it, otherwise a random UUID is generated.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger writes the access logs using the `l` structured logger.
func Logger(l *slog.Logger) HandlerFunc {
	return ginslog.New(l)
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID assigns an identifier to each request and stores the `l`
// logger, annotated with that identifier, in the request context.
// Therefore, the use cases which log via the core log package will
// report the request_id of their calling request.
func RequestID(l *slog.Logger) HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		ctx := log.WithLogger(c.Request.Context(), l)
		ctx = log.WithAttrs(ctx, slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
