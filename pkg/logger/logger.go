package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は、診断ログ用の zap.Logger を生成します。出力先は標準エラーです。
// verbose が true の場合は Debug レベルまで出力します。
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

// NewNop は、何も出力しないロガーを返します。テストや依存性の省略時に使用します。
func NewNop() *zap.Logger {
	return zap.NewNop()
}
