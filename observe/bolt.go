// Copyright 2026 The TempoSynth Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observe

import (
	"fmt"
	"os"
	"sort"

	"github.com/felixgeelhaar/bolt/v3"
)

// BoltConfig configures the bolt-backed logger.
type BoltConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the destination; defaults to stdout.
	Output *os.File
}

// BoltLogger is a Logger backed by the bolt structured logger.
type BoltLogger struct {
	logger *bolt.Logger
}

// NewBoltLogger creates a logger with the given configuration.
func NewBoltLogger(config BoltConfig) *BoltLogger {
	output := config.Output
	if output == nil {
		output = os.Stdout
	}
	var handler bolt.Handler
	if config.Format == "json" {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}
	return &BoltLogger{logger: bolt.New(handler).SetLevel(parseLevel(config.Level))}
}

func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// Debug logs at debug level.
func (l *BoltLogger) Debug(msg string, fields map[string]interface{}) {
	apply(l.logger.Debug(), fields).Msg(msg)
}

// Info logs at info level.
func (l *BoltLogger) Info(msg string, fields map[string]interface{}) {
	apply(l.logger.Info(), fields).Msg(msg)
}

// Warn logs at warn level.
func (l *BoltLogger) Warn(msg string, fields map[string]interface{}) {
	apply(l.logger.Warn(), fields).Msg(msg)
}

// Error logs at error level.
func (l *BoltLogger) Error(msg string, fields map[string]interface{}) {
	apply(l.logger.Error(), fields).Msg(msg)
}

func apply(e *bolt.Event, fields map[string]interface{}) *bolt.Event {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			e = e.Str(k, v)
		case int:
			e = e.Int(k, v)
		case int64:
			e = e.Int64(k, v)
		case uint:
			e = e.Int64(k, int64(v))
		case bool:
			e = e.Bool(k, v)
		case float64:
			e = e.Float64(k, v)
		case error:
			e = e.Str(k, v.Error())
		default:
			e = e.Str(k, fmt.Sprint(v))
		}
	}
	return e
}
