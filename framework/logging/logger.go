// Package logging builds the application's zap logger and the plain-text
// OutputLogger sink that services write their reports to.
//
//	log, err := logging.New(cfg.Log)
//	sink := logging.NewOutputLogger(log)
//	sink.Log("From Dependency Service 1\n...")
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-lifetime/framework/config"
)

// Key is the container key for the OutputLogger sink.
const Key = "logging.OutputLogger"

// ZapKey is the container key for the *zap.Logger.
const ZapKey = "logging.zap"

// OutputLogger is a write-only sink for plain text lines. It has no failure
// contract: a sink that cannot write drops the message.
type OutputLogger interface {
	Log(message string)
}

// New builds a zap logger from cfg: a colored console encoder for
// development, JSON for production.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// ── OutputLogger ─────────────────────────────────────────────────────────────

type zapOutput struct {
	log *zap.Logger
}

// NewOutputLogger returns a sink that writes each message at info level.
func NewOutputLogger(log *zap.Logger) OutputLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &zapOutput{log: log.WithOptions(zap.AddCallerSkip(1))}
}

func (o *zapOutput) Log(message string) {
	defer func() { _ = recover() }() // a broken sink must never reach the caller
	o.log.Info(strings.TrimRight(message, "\n"))
}

// Nop returns a sink that discards everything.
func Nop() OutputLogger { return nopOutput{} }

type nopOutput struct{}

func (nopOutput) Log(string) {}
