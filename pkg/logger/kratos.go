package logger

import (
	"context"
	"fmt"
	"os"

	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// KratosLogger adapts Logger to the kratos log interface.
type KratosLogger struct {
	logger Logger
}

// NewKratosLogger wraps a Logger for use by kratos components.
func NewKratosLogger(logger Logger) kratoslog.Logger {
	return &KratosLogger{logger: logger}
}

// Log implements the kratos Logger interface.
func (kl *KratosLogger) Log(level kratoslog.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}

	fields := make(map[string]interface{})
	var msg string

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			key := fmt.Sprintf("%v", keyvals[i])
			value := keyvals[i+1]

			if key == "msg" {
				msg = fmt.Sprintf("%v", value)
			} else {
				fields[key] = value
			}
		}
	}

	ctx := context.TODO()
	switch level {
	case kratoslog.LevelDebug:
		kl.logger.Debug(ctx, msg, convertFields(fields)...)
	case kratoslog.LevelInfo:
		kl.logger.Info(ctx, msg, convertFields(fields)...)
	case kratoslog.LevelWarn:
		kl.logger.Warn(ctx, msg, convertFields(fields)...)
	case kratoslog.LevelError:
		kl.logger.Error(ctx, msg, convertFields(fields)...)
	case kratoslog.LevelFatal:
		kl.logger.Fatal(ctx, msg, convertFields(fields)...)
	default:
		kl.logger.Info(ctx, msg, convertFields(fields)...)
	}

	return nil
}

func convertFields(fields map[string]interface{}) []Field {
	result := make([]Field, 0, len(fields))
	for key, value := range fields {
		result = append(result, F(key, value))
	}
	return result
}

// NewKratosStdLogger builds a stdout kratos logger tagged with service metadata.
func NewKratosStdLogger(serviceName, version string) kratoslog.Logger {
	return kratoslog.With(
		kratoslog.NewStdLogger(os.Stdout),
		"service.name", serviceName,
		"service.version", version,
		"ts", kratoslog.DefaultTimestamp,
		"caller", kratoslog.DefaultCaller,
	)
}
