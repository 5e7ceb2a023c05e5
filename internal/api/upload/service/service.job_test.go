package service

import (
	"testing"
	"time"

	"meta_forms/internal/api/upload/models"
)

func TestJobTracker_Lifecycle(t *testing.T) {
	manager := NewJobManager()
	tracker := manager.CreateJob("686f00", "members.csv")

	state := tracker.Snapshot()
	if state.Status != models.JobStatusUploading {
		t.Fatalf("job mới phải ở trạng thái uploading, nhận %s", state.Status)
	}
	if state.JobID == "" {
		t.Fatal("job phải có id")
	}
	if _, exists := manager.Get(state.JobID); !exists {
		t.Fatal("job phải tra được từ manager theo jobId")
	}

	tracker.SetProcessing(100)
	state = tracker.Snapshot()
	if state.Status != models.JobStatusProcessing || state.TotalRows == nil || *state.TotalRows != 100 {
		t.Errorf("SetProcessing phải ghi status và totalRows, nhận %+v", state)
	}
}

func TestJobTracker_SubscriberReceivesEvents(t *testing.T) {
	tracker := newJobTracker("686f00", "a.csv")
	id, events := tracker.Subscribe()
	defer tracker.Unsubscribe(id)

	tracker.SetProcessing(10)
	tracker.SetProgress(5)

	first := <-events
	if first.Status != models.JobStatusProcessing {
		t.Errorf("event đầu phải là processing, nhận %s", first.Status)
	}
	second := <-events
	if second.ProcessedRows != 5 {
		t.Errorf("event tiến độ phải mang processedRows=5, nhận %d", second.ProcessedRows)
	}
}

func TestJobTracker_TerminalClosesChannel(t *testing.T) {
	tracker := newJobTracker("686f00", "a.csv")
	_, events := tracker.Subscribe()

	tracker.SetProcessing(3)
	tracker.SetCompleted()

	sawCompleted := false
	for event := range events {
		if event.Status == models.JobStatusCompleted {
			sawCompleted = true
			if event.ProcessedRows != 3 {
				t.Errorf("completed phải ép processedRows = totalRows, nhận %d", event.ProcessedRows)
			}
		}
	}
	// Vòng for thoát nghĩa là channel đã được đóng sau event terminal
	if !sawCompleted {
		t.Error("subscriber phải nhận được event completed trước khi channel đóng")
	}
}

func TestJobTracker_LateSubscriberGetsFinalState(t *testing.T) {
	tracker := newJobTracker("686f00", "a.csv")
	tracker.SetProcessing(2)
	tracker.SetFailed("hỏng")

	_, events := tracker.Subscribe()
	event, ok := <-events
	if !ok {
		t.Fatal("subscriber muộn phải nhận được event cuối")
	}
	if event.Status != models.JobStatusFailed || event.Error != "hỏng" {
		t.Errorf("event cuối sai: %+v", event)
	}
	if _, ok := <-events; ok {
		t.Error("channel phải đóng ngay sau event cuối")
	}
}

func TestJobTracker_UnsubscribeIdempotent(t *testing.T) {
	tracker := newJobTracker("686f00", "a.csv")
	id, _ := tracker.Subscribe()

	// Gọi lặp và gọi với id không tồn tại đều không được panic
	tracker.Unsubscribe(id)
	tracker.Unsubscribe(id)
	tracker.Unsubscribe(-1)
	tracker.Unsubscribe(9999)

	// Publish sau khi subscriber đã rời không được panic
	tracker.SetProgress(1)
}

func TestJobTracker_TerminalIsSticky(t *testing.T) {
	tracker := newJobTracker("686f00", "a.csv")
	tracker.SetCompleted()
	tracker.SetFailed("muộn rồi")

	if state := tracker.Snapshot(); state.Status != models.JobStatusCompleted {
		t.Errorf("trạng thái terminal không được bị ghi đè, nhận %s", state.Status)
	}
}

func TestJobManager_EvictFinished(t *testing.T) {
	manager := NewJobManager()
	done := manager.CreateJob("686f00", "done.csv")
	running := manager.CreateJob("686f00", "running.csv")

	done.SetCompleted()
	// Lùi finishedAt về quá khứ để vượt retention
	done.mu.Lock()
	done.finishedAt = time.Now().Add(-time.Hour)
	done.mu.Unlock()

	evicted := manager.EvictFinished(time.Minute)
	if evicted != 1 {
		t.Fatalf("muốn evict 1 job, nhận %d", evicted)
	}
	if _, exists := manager.Get(done.JobID()); exists {
		t.Error("job đã kết thúc quá retention phải bị gỡ")
	}
	if _, exists := manager.Get(running.JobID()); !exists {
		t.Error("job đang chạy không được bị gỡ")
	}
}
