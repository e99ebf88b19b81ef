// Package logging provides the shared logger constructor for AgriLens Core.
package logging

import (
	"go.uber.org/zap"
)

// New builds a sugared zap logger. Development mode uses console encoding
// with debug level; production mode emits JSON at info level.
func New(dev bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	if dev {
		cfg := zap.NewDevelopmentConfig()
		z, err = cfg.Build()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

// Nop returns a logger that discards everything. Embedders that do not care
// about core logs get this by default.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
