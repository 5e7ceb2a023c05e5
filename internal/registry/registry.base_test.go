package registry

import (
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int](nil)

	if err := r.Register("a", 1); err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}
	if err := r.Register("a", 2); err == nil {
		t.Fatal("đăng ký trùng tên phải báo lỗi")
	}

	value, exists := r.Get("a")
	if !exists || value != 1 {
		t.Errorf("muốn giá trị gốc 1, nhận %d (exists=%v)", value, exists)
	}
	if _, exists := r.Get("b"); exists {
		t.Error("tên chưa đăng ký không được tồn tại")
	}
}

func TestRegistry_DeleteRunsCleanup(t *testing.T) {
	cleaned := []string{}
	r := NewRegistry[string](func(item string) {
		cleaned = append(cleaned, item)
	})
	r.Update("a", "x")
	r.Update("b", "y")

	r.Delete("a")
	if len(cleaned) != 1 || cleaned[0] != "x" {
		t.Errorf("Delete phải chạy cleanup cho đúng item, nhận %v", cleaned)
	}
	if r.Count() != 1 {
		t.Errorf("sau Delete phải còn 1 item, còn %d", r.Count())
	}

	// Xóa tên không tồn tại không được panic, không gọi cleanup
	r.Delete("a")
	if len(cleaned) != 1 {
		t.Errorf("cleanup bị gọi thừa: %v", cleaned)
	}

	r.ClearAll()
	if len(cleaned) != 2 || r.Count() != 0 {
		t.Errorf("ClearAll phải cleanup toàn bộ item còn lại, nhận %v (count=%d)", cleaned, r.Count())
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[int](nil)

	first := r.GetOrCreate("a", func() int { return 7 })
	second := r.GetOrCreate("a", func() int { return 99 })
	if first != 7 || second != 7 {
		t.Errorf("GetOrCreate phải giữ giá trị tạo lần đầu, nhận %d rồi %d", first, second)
	}
}

func TestRegistry_MustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGet với tên chưa đăng ký phải panic")
		}
	}()
	NewRegistry[int](nil).MustGet("missing")
}
