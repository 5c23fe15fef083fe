package context

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	TraceIDKey   contextKey = "trace_id"
	UserIDKey    contextKey = "user_id"
	ArticleIDKey contextKey = "article_id"
	CommentIDKey contextKey = "comment_id"
	RequestIDKey contextKey = "request_id"

	ServiceNameKey contextKey = "service_name"
	ServiceIDKey   contextKey = "service_id"
	ClientIPKey    contextKey = "client_ip"
	UserAgentKey   contextKey = "user_agent"
)

// TraceContext bundles the request-scoped identifiers for logging.
type TraceContext struct {
	TraceID   string
	UserID    int64
	ArticleID int64
	CommentID int64
	RequestID string
}

// WithTraceID stores the trace id in ctx, generating one when empty.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = GenerateTraceID()
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.String("trace.id", traceID))
	}

	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID reads the trace id, preferring the active span's.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}

	return ""
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if userID <= 0 {
		return ctx
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int64("user.id", userID))
	}

	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID reads the user id from ctx.
func GetUserID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if userID, ok := ctx.Value(UserIDKey).(int64); ok {
		return userID
	}
	return 0
}

// WithArticleID stores the article id in ctx.
func WithArticleID(ctx context.Context, articleID int64) context.Context {
	if articleID <= 0 {
		return ctx
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int64("article.id", articleID))
	}

	return context.WithValue(ctx, ArticleIDKey, articleID)
}

// GetArticleID reads the article id from ctx.
func GetArticleID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if articleID, ok := ctx.Value(ArticleIDKey).(int64); ok {
		return articleID
	}
	return 0
}

// WithCommentID stores the comment id in ctx.
func WithCommentID(ctx context.Context, commentID int64) context.Context {
	if commentID <= 0 {
		return ctx
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int64("comment.id", commentID))
	}

	return context.WithValue(ctx, CommentIDKey, commentID)
}

// GetCommentID reads the comment id from ctx.
func GetCommentID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if commentID, ok := ctx.Value(CommentIDKey).(int64); ok {
		return commentID
	}
	return 0
}

// WithRequestID stores the request id in ctx, generating one when empty.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.String("request.id", requestID))
	}

	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID reads the request id from ctx.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithServiceInfo stores service identity in ctx.
func WithServiceInfo(ctx context.Context, serviceName, serviceID string) context.Context {
	ctx = context.WithValue(ctx, ServiceNameKey, serviceName)
	ctx = context.WithValue(ctx, ServiceIDKey, serviceID)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.id", serviceID),
		)
	}

	return ctx
}

// GetServiceName reads the service name from ctx.
func GetServiceName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if serviceName, ok := ctx.Value(ServiceNameKey).(string); ok {
		return serviceName
	}
	return ""
}

// WithClientInfo stores client ip and user agent in ctx.
func WithClientInfo(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ClientIPKey, clientIP)
	ctx = context.WithValue(ctx, UserAgentKey, userAgent)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("client.ip", clientIP),
			attribute.String("client.user_agent", userAgent),
		)
	}

	return ctx
}

// GetClientIP reads the client ip from ctx.
func GetClientIP(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if clientIP, ok := ctx.Value(ClientIPKey).(string); ok {
		return clientIP
	}
	return ""
}

// GetUserAgent reads the user agent from ctx.
func GetUserAgent(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userAgent, ok := ctx.Value(UserAgentKey).(string); ok {
		return userAgent
	}
	return ""
}

// GenerateTraceID returns a fresh trace id.
func GenerateTraceID() string {
	return uuid.New().String()
}

// GenerateRequestID returns a fresh request id.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ExtractTraceContext gathers the identifiers stored in ctx.
func ExtractTraceContext(ctx context.Context) *TraceContext {
	return &TraceContext{
		TraceID:   GetTraceID(ctx),
		UserID:    GetUserID(ctx),
		ArticleID: GetArticleID(ctx),
		CommentID: GetCommentID(ctx),
		RequestID: GetRequestID(ctx),
	}
}

// ToMap renders the trace context as log fields.
func (tc *TraceContext) ToMap() map[string]interface{} {
	result := make(map[string]interface{})

	if tc.TraceID != "" {
		result["trace_id"] = tc.TraceID
	}
	if tc.UserID > 0 {
		result["user_id"] = tc.UserID
	}
	if tc.ArticleID > 0 {
		result["article_id"] = tc.ArticleID
	}
	if tc.CommentID > 0 {
		result["comment_id"] = tc.CommentID
	}
	if tc.RequestID != "" {
		result["request_id"] = tc.RequestID
	}

	return result
}
