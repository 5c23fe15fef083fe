package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	tracecontext "github.com/mahalakshmi2126/Newshub-Server/pkg/context"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// OTelMiddleware wires request tracing into gin.
type OTelMiddleware struct {
	serviceName string
	logger      logger.Logger
}

// NewOTelMiddleware creates the tracing middleware.
func NewOTelMiddleware(serviceName string, logger logger.Logger) *OTelMiddleware {
	return &OTelMiddleware{
		serviceName: serviceName,
		logger:      logger,
	}
}

// GinMiddleware returns the gin handler that opens a span per request
// and enriches the request context with identity fields.
func (m *OTelMiddleware) GinMiddleware() gin.HandlerFunc {
	baseMiddleware := otelgin.Middleware(m.serviceName)

	return gin.HandlerFunc(func(c *gin.Context) {
		baseMiddleware(c)

		ctx := m.enhanceContext(c.Request.Context(), c)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	})
}

func (m *OTelMiddleware) enhanceContext(ctx context.Context, c *gin.Context) context.Context {
	traceID := c.GetHeader("X-Trace-ID")
	if traceID == "" {
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}
	}
	ctx = tracecontext.WithTraceID(ctx, traceID)

	requestID := c.GetHeader("X-Request-ID")
	ctx = tracecontext.WithRequestID(ctx, requestID)

	if userIDVal, exists := c.Get("userID"); exists {
		if userID, ok := userIDVal.(int64); ok {
			ctx = tracecontext.WithUserID(ctx, userID)
		}
	}

	ctx = tracecontext.WithServiceInfo(ctx, m.serviceName, "")
	ctx = tracecontext.WithClientInfo(ctx, c.ClientIP(), c.GetHeader("User-Agent"))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.user_agent", c.GetHeader("User-Agent")),
			attribute.String("http.client_ip", c.ClientIP()),
		)

		if userID := tracecontext.GetUserID(ctx); userID > 0 {
			span.SetAttributes(attribute.Int64("user.id", userID))
		}
	}

	return ctx
}
