/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// requestLogLevel is the zap level of logr's V(2), at which requests are traced.
const requestLogLevel = zapcore.Level(-2)

// loggerConfig returns a console config at info level, or a development config including
// request traces if debug is set. Both keep the error block's line breaks readable.
func loggerConfig(debug bool) zap.Config {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(requestLogLevel)
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// newLogger builds the logger described by loggerConfig. The returned func flushes
// buffered entries.
func newLogger(debug bool) (logr.Logger, func() error, error) {
	zl, err := loggerConfig(debug).Build()
	if err != nil {
		return logr.Discard(), nil, err
	}
	return zapr.NewLogger(zl), zl.Sync, nil
}
