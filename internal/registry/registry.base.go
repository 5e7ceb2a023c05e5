// Package registry cung cấp generic registry thread-safe để quản lý các
// tài nguyên dùng chung trong ứng dụng (collection MongoDB, job ingestion,
// service đã khởi tạo...).
package registry

import (
	"fmt"
	"sync"
)

// Registry là một generic registry thread-safe cho kiểu T
type Registry[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	cleanup func(T) // hàm dọn dẹp khi xóa item (có thể nil)
}

// NewRegistry tạo registry mới. cleanup được gọi cho từng item khi item
// bị xóa khỏi registry (Delete/Clear/ClearAll); truyền nil nếu không cần.
func NewRegistry[T any](cleanup func(T)) *Registry[T] {
	return &Registry[T]{
		items:   make(map[string]T),
		cleanup: cleanup,
	}
}

// Register đăng ký item với tên cho trước. Trả lỗi nếu tên đã tồn tại.
func (r *Registry[T]) Register(name string, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return fmt.Errorf("registry: item '%s' đã được đăng ký", name)
	}
	r.items[name] = item
	return nil
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	return item, exists
}

// MustGet lấy item theo tên, panic nếu không tồn tại. Chỉ dùng trong
// giai đoạn khởi tạo khi item chắc chắn đã được đăng ký.
func (r *Registry[T]) MustGet(name string) T {
	item, exists := r.Get(name)
	if !exists {
		panic(fmt.Sprintf("registry: item '%s' chưa được đăng ký", name))
	}
	return item
}

// GetOrCreate lấy item theo tên, nếu chưa có thì tạo mới bằng factory
// và đăng ký luôn (atomic).
func (r *Registry[T]) GetOrCreate(name string, factory func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, exists := r.items[name]; exists {
		return item
	}
	item := factory()
	r.items[name] = item
	return item
}

// Update ghi đè item theo tên (tạo mới nếu chưa có)
func (r *Registry[T]) Update(name string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = item
}

// Delete xóa item theo tên, gọi cleanup nếu có
func (r *Registry[T]) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, exists := r.items[name]; exists {
		if r.cleanup != nil {
			r.cleanup(item)
		}
		delete(r.items, name)
	}
}

// Names trả về danh sách tên các item đang đăng ký
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	return names
}

// Count trả về số lượng item đang đăng ký
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ClearAll xóa toàn bộ item, gọi cleanup cho từng item nếu có
func (r *Registry[T]) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		for _, item := range r.items {
			r.cleanup(item)
		}
	}
	r.items = make(map[string]T)
}
