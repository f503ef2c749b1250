package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook buffers entries and writes them from a single goroutine so slow writers never block requests.
// Entries are dropped when the buffer is full.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHook starts the writer goroutine.
func NewAsyncHook(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.process()
	return h
}

func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		h.write(entry)
		return nil
	}

	select {
	case h.entries <- detach(entry):
	default:
	}
	return nil
}

// detach copies the entry so the writer goroutine does not share logrus' pooled buffer or data map.
func detach(entry *logrus.Entry) *logrus.Entry {
	cp := *entry
	cp.Buffer = nil
	cp.Data = make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		cp.Data[k] = v
	}
	return &cp
}

func (h *AsyncHook) process() {
	defer h.wg.Done()
	for entry := range h.entries {
		h.safeWrite(entry)
	}
}

func (h *AsyncHook) safeWrite(entry *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			// the logger cannot log its own panic
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
			debug.PrintStack()
		}
	}()
	h.write(entry)
}

func (h *AsyncHook) write(entry *logrus.Entry) {
	if dropped, ok := entry.Data[filteredKey].(bool); ok && dropped {
		return
	}
	var data []byte
	var err error
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return
	}
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close drains pending entries.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}

const filteredKey = "_filtered"

// ModuleFilterHook marks entries whose "module" field is not in the allow list.
// Entries without a module field always pass.
type ModuleFilterHook struct {
	allowed map[string]bool
}

// NewModuleFilterHook parses a comma separated allow list; empty or "*" allows everything.
func NewModuleFilterHook(spec string) *ModuleFilterHook {
	h := &ModuleFilterHook{allowed: map[string]bool{}}
	for _, m := range strings.Split(spec, ",") {
		m = strings.TrimSpace(strings.ToLower(m))
		if m == "" || m == "*" {
			continue
		}
		h.allowed[m] = true
	}
	return h
}

func (h *ModuleFilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *ModuleFilterHook) Fire(entry *logrus.Entry) error {
	if len(h.allowed) == 0 || entry.Level <= logrus.ErrorLevel {
		return nil
	}
	module, ok := entry.Data["module"].(string)
	if !ok {
		return nil
	}
	if !h.allowed[strings.ToLower(module)] {
		entry.Data[filteredKey] = true
	}
	return nil
}
