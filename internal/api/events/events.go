// Package events cung cấp event bus nội bộ cho các thay đổi dữ liệu.
// Service tầng base phát event sau mỗi thao tác ghi; các thành phần khác
// (đếm submission theo form, dọn dữ liệu liên quan...) đăng ký handler.
package events

import (
	"sync"

	"meta_forms/internal/logger"
)

// Operation là loại thao tác dữ liệu
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// DataChangeEvent mô tả một thay đổi dữ liệu trên một collection
type DataChangeEvent struct {
	CollectionName string
	Operation      Operation
	Document       any // document sau thay đổi (nil với delete nhiều)
}

// DataChangeHandler xử lý một DataChangeEvent
type DataChangeHandler func(event DataChangeEvent)

var (
	mu       sync.RWMutex
	handlers []DataChangeHandler
)

// OnDataChanged đăng ký handler nhận mọi DataChangeEvent
func OnDataChanged(handler DataChangeHandler) {
	mu.Lock()
	defer mu.Unlock()
	handlers = append(handlers, handler)
}

// EmitDataChanged phát event tới toàn bộ handler đã đăng ký. Mỗi handler
// chạy trong goroutine riêng có recover để một handler lỗi không ảnh
// hưởng luồng chính và các handler khác.
func EmitDataChanged(event DataChangeEvent) {
	mu.RLock()
	defer mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().WithField("collection", event.CollectionName).
						Errorf("events: handler panic: %v", r)
				}
			}()
			h(event)
		}()
	}
}

// ResetHandlers xóa toàn bộ handler. Dùng trong test.
func ResetHandlers() {
	mu.Lock()
	defer mu.Unlock()
	handlers = nil
}
