package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log bất đồng bộ qua buffered channel để không block
// request path khi disk chậm.
type AsyncHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
	entries   chan *logrus.Entry
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAsyncHook tạo hook mới với buffer size cho trước và khởi động
// goroutine ghi log nền.
func NewAsyncHook(writer io.Writer, formatter logrus.Formatter, bufferSize int, levels []logrus.Level) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	hook := &AsyncHook{
		writer:    writer,
		formatter: formatter,
		levels:    levels,
		entries:   make(chan *logrus.Entry, bufferSize),
	}
	hook.wg.Add(1)
	go hook.process()
	return hook
}

// Levels trả về các level mà hook xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return h.levels
}

// Fire đẩy entry vào channel. Nếu buffer đầy thì bỏ qua entry thay vì
// block caller.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	// Dup entry vì logrus tái sử dụng entry sau khi Fire trả về
	dup := entry.Dup()
	dup.Level = entry.Level
	dup.Message = entry.Message

	select {
	case h.entries <- dup:
	default:
		// Buffer đầy: drop để giữ latency, không trả lỗi cho caller
	}
	return nil
}

// process chạy trong goroutine nền, đọc entry từ channel và ghi ra writer
func (h *AsyncHook) process() {
	defer h.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("logger: writer goroutine panic: %v\n", r)
		}
	}()

	for entry := range h.entries {
		line, err := h.formatter.Format(entry)
		if err != nil {
			continue
		}
		_, _ = h.writer.Write(line)
	}
}

// Close đóng channel và chờ goroutine ghi hết log còn lại trong buffer.
// Gọi nhiều lần vẫn an toàn.
func (h *AsyncHook) Close() {
	h.closeOnce.Do(func() {
		close(h.entries)
		h.wg.Wait()
	})
}
