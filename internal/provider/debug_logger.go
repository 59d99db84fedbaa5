package provider

import (
	"fmt"
	"log"
	"strings"
)

// DebugLogger forwards the client's log lines to the plugin log, where Terraform filters them by level.
type DebugLogger struct{}

func (d *DebugLogger) Printf(format string, v ...interface{}) {
	log.Printf("[DEBUG] [payments-go-api] "+format, v...)
}

func (d *DebugLogger) Println(v ...interface{}) {
	var items []string
	for _, i := range v {
		items = append(items, fmt.Sprint(i))
	}
	log.Printf("[DEBUG] [payments-go-api] %s", strings.Join(items, " "))
}
