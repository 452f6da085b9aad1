package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// String returns the value of key, or def when unset.
func String(key, def string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	debug(log, key, "Environment variable found, using environment", "environment", val)
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		debug(log, key, "Environment variable could not be parsed as int, using default", "providedVal", raw, "defaultVal", def, "error", err)
		return def
	}
	debug(log, key, "Environment variable found, using it", "value", i)
	return i
}

func Bool(key string, def bool, log *logger.Logger) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	debug(log, key, "Environment variable could not be parsed as bool, using default", "providedVal", raw, "defaultVal", def)
	return def
}

// Duration accepts Go duration strings ("30s") or plain seconds ("30").
func Duration(key string, def time.Duration, log *logger.Logger) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		debug(log, key, "Environment variable not found, using default", "default", def)
		return def
	}
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	debug(log, key, "Environment variable could not be parsed as duration, using default", "providedVal", raw, "defaultVal", def)
	return def
}

// List splits a comma separated value, dropping empty items.
func List(key string, def []string, log *logger.Logger) []string {
	raw := String(key, "", log)
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func debug(log *logger.Logger, key, msg string, kv ...interface{}) {
	if log == nil {
		return
	}
	log.With("env_var", key).Debug(msg, kv...)
}
