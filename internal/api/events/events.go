// Package events is the in-process fan-out for data changes. Base services emit an event
// after every successful write; subscribers (the AMQP publisher, report cache
// invalidation) register with OnDataChanged.
package events

import (
	"context"
	"reflect"
	"sync"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

const (
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpUpsert  = "upsert"
	OpReplace = "replace"
	OpDelete  = "delete"
)

// DataChangeEvent describes one write. Document is the document after the change,
// or the deleted document for OpDelete.
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       interface{}
}

// DataChangeHandler reacts to a change.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   []DataChangeHandler
	handlersMu sync.RWMutex
)

// OnDataChanged registers h. Call during startup.
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// Reset drops every handler. Tests use it.
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}

// EmitDataChanged runs every handler in registration order on the caller's goroutine,
// with a background context since work they queue may outlive the request. Handlers
// must not block; a panicking handler is logged and the others still run.
func EmitDataChanged(_ context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	fields := map[string]interface{}{"collection": e.CollectionName, "operation": e.Operation}
	for _, h := range list {
		utility.GoProtect(func() { h(context.Background(), e) }, fields)
	}
}

// GetStringField reads a string field (e.g. LoyverseID) from a struct or pointer by reflection.
func GetStringField(doc interface{}, fieldName string) string {
	if doc == nil {
		return ""
	}
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return ""
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return ""
	}
	f := val.FieldByName(fieldName)
	if !f.IsValid() {
		return ""
	}
	switch f.Kind() {
	case reflect.String:
		return f.String()
	case reflect.Ptr:
		if !f.IsNil() && f.Elem().Kind() == reflect.String {
			return f.Elem().String()
		}
	}
	return ""
}
