package bootstrap

import (
	"log/slog"
	"strings"

	"slotbook/internal/handler/middleware"
	"slotbook/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
		NewZapLogger,
	),
)

// WithEventLogger routes fx lifecycle events through zap.
var WithEventLogger = fx.WithLogger(func(z *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: z.Named("fx")}
})

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}

// NewZapLogger only serves fx's own event log; application code logs through slog.
func NewZapLogger(cfg config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if gin.Mode() == gin.ReleaseMode {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	// fx is chatty at info; keep its events one level quieter than the app.
	if level < zapcore.WarnLevel {
		level++
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
