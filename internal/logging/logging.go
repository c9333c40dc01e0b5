// Package logging writes component-prefixed key=value log lines.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

var jsonFormat atomic.Bool

// SetFormat switches between "text" (default) and "json" output.
func SetFormat(format string) {
	jsonFormat.Store(strings.EqualFold(strings.TrimSpace(format), "json"))
}

// Info logs a message with key/value fields.
func Info(component, msg string, kv ...interface{}) {
	emit("INFO", component, msg, kv...)
}

// Error logs an error message with key/value fields.
func Error(component, msg string, kv ...interface{}) {
	emit("ERROR", component, msg, kv...)
}

func emit(level, component, msg string, kv ...interface{}) {
	if jsonFormat.Load() {
		payload := map[string]any{"level": level, "component": component, "msg": msg}
		for k, v := range pairs(kv...) {
			payload[k] = v
		}
		b, err := json.Marshal(payload)
		if err == nil {
			log.Print(string(b))
			return
		}
	}
	prefix := ""
	if level == "ERROR" {
		prefix = "ERROR "
	}
	log.Printf("[%s] %s%s%s", strings.ToUpper(component), prefix, msg, formatFields(kv...))
}

func pairs(kv ...interface{}) map[string]string {
	if len(kv)%2 != 0 {
		kv = append(kv, "(missing)")
	}
	out := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out[strings.TrimSpace(toString(kv[i]))] = toString(kv[i+1])
	}
	return out
}

func formatFields(kv ...interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	if len(kv)%2 != 0 {
		kv = append(kv, "(missing)")
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(toString(kv[i])))
		b.WriteString("=")
		b.WriteString(toString(kv[i+1]))
	}
	return b.String()
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return strings.ReplaceAll(t.Error(), "\n", " ")
	default:
		return strings.TrimSpace(strings.ReplaceAll(fmt.Sprintf("%v", t), "\n", " "))
	}
}
