package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotate 文件输出 + 切割（lumberjack）
type Rotate struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level string // debug / info / warn / error
	JSON  bool   // false 时使用彩色控制台格式
	// 为 nil 时只写 stdout
	Rotate *Rotate
	// 输出目标，默认 os.Stdout（测试可替换）
	Out zapcore.WriteSyncer
}

// New 构建 zap logger，返回的 cleanup 需在退出前调用
func New(opt Options) (*zap.Logger, func()) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(strings.ToLower(opt.Level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	enc := consoleEncoder()
	if opt.JSON {
		enc = jsonEncoder()
	}

	out := opt.Out
	if out == nil {
		out = zapcore.AddSync(os.Stdout)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, out, lvl)}

	if r := opt.Rotate; r != nil && r.Filename != "" {
		lj := &lumberjack.Logger{
			Filename:   r.Filename,
			MaxSize:    max(1, r.MaxSizeMB),
			MaxBackups: max(0, r.MaxBackups),
			MaxAge:     max(0, r.MaxAgeDays),
			Compress:   r.Compress,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotWriter{lj}), lvl))
	}

	// 每秒同一条消息前 100 条全量，之后每 100 条采 1 条
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !opt.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// lumberjack 没有 Sync
type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Sync() error { return nil }

type zapIOWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *zapIOWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 把 io.Writer 风格的输出（gin debug 打印等）转到 zap
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &zapIOWriter{l: l, level: level}
}

// ToStdLogger 给只接受 *log.Logger 的组件（gorm logger）用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
