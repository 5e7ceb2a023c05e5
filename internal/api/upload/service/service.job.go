// Package service chứa job manager và pipeline ingestion của domain upload.
package service

import (
	"sync"
	"time"

	"meta_forms/internal/api/upload/models"
	"meta_forms/internal/registry"

	"github.com/google/uuid"
)

// JobTracker giữ trạng thái một job ingestion và danh sách subscriber
// đang theo dõi tiến độ. Mọi truy cập qua mutex; kênh subscriber có
// buffer và gửi non-blocking để một subscriber chậm không kẹt pipeline.
type JobTracker struct {
	mu          sync.Mutex
	state       models.JobState
	subscribers map[int]chan models.ProgressEvent
	nextSubID   int
	finishedAt  time.Time
}

// newJobTracker tạo tracker mới ở trạng thái uploading
func newJobTracker(formID, filename string) *JobTracker {
	return &JobTracker{
		state: models.JobState{
			JobID:            uuid.NewString(),
			FormID:           formID,
			OriginalFilename: filename,
			Status:           models.JobStatusUploading,
		},
		subscribers: map[int]chan models.ProgressEvent{},
	}
}

// Snapshot trả về bản sao trạng thái hiện tại
func (t *JobTracker) Snapshot() models.JobState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// JobID trả về id của job
func (t *JobTracker) JobID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.JobID
}

// FinishedAt trả về thời điểm job kết thúc (zero nếu chưa)
func (t *JobTracker) FinishedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finishedAt
}

// Subscribe đăng ký nhận event tiến độ. Trả về id để Unsubscribe và
// channel event; channel bị đóng khi job kết thúc. Subscribe sau khi job
// đã kết thúc nhận ngay event cuối rồi channel đóng luôn.
func (t *JobTracker) Subscribe() (int, <-chan models.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan models.ProgressEvent, 16)
	if t.state.Status.IsTerminal() {
		ch <- t.eventLocked()
		close(ch)
		return -1, ch
	}

	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = ch
	return id, ch
}

// Unsubscribe gỡ một subscriber. Gọi nhiều lần hoặc với id không tồn tại
// đều an toàn (id -1 của subscriber muộn cũng rơi vào nhánh này).
func (t *JobTracker) Unsubscribe(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ch, exists := t.subscribers[id]; exists {
		close(ch)
		delete(t.subscribers, id)
	}
}

// eventLocked dựng ProgressEvent từ trạng thái hiện tại. Caller giữ mutex.
func (t *JobTracker) eventLocked() models.ProgressEvent {
	return models.ProgressEvent{
		JobID:         t.state.JobID,
		Status:        t.state.Status,
		ProcessedRows: t.state.ProcessedRows,
		TotalRows:     t.state.TotalRows,
		Error:         t.state.Error,
	}
}

// publishLocked gửi event tới mọi subscriber, bỏ qua subscriber đầy
// buffer. Nếu trạng thái là terminal thì đóng toàn bộ channel sau khi
// gửi. Caller giữ mutex.
func (t *JobTracker) publishLocked() {
	event := t.eventLocked()
	for id, ch := range t.subscribers {
		select {
		case ch <- event:
		default:
		}
		if t.state.Status.IsTerminal() {
			close(ch)
			delete(t.subscribers, id)
		}
	}
}

// SetProcessing chuyển job sang processing với tổng số dòng đã biết
func (t *JobTracker) SetProcessing(totalRows int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = models.JobStatusProcessing
	t.state.TotalRows = &totalRows
	t.publishLocked()
}

// SetProgress cập nhật số dòng đã xử lý
func (t *JobTracker) SetProgress(processedRows int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.ProcessedRows = processedRows
	t.publishLocked()
}

// SetCompleted kết thúc job thành công
func (t *JobTracker) SetCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status.IsTerminal() {
		return
	}
	t.state.Status = models.JobStatusCompleted
	if t.state.TotalRows != nil {
		t.state.ProcessedRows = *t.state.TotalRows
	}
	t.finishedAt = time.Now()
	t.publishLocked()
}

// SetFailed kết thúc job với lỗi
func (t *JobTracker) SetFailed(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status.IsTerminal() {
		return
	}
	t.state.Status = models.JobStatusFailed
	t.state.Error = message
	t.finishedAt = time.Now()
	t.publishLocked()
}

// JobManager quản lý các JobTracker đang sống trong bộ nhớ
type JobManager struct {
	jobs *registry.Registry[*JobTracker]
}

// DefaultJobManager là job manager dùng chung của tiến trình: router
// upload đăng ký job vào đây, worker dọn dẹp evict từ đây.
var DefaultJobManager = NewJobManager()

// NewJobManager tạo JobManager rỗng
func NewJobManager() *JobManager {
	return &JobManager{
		// Cleanup khi evict: ép job dang dở về failed để subscriber
		// không chờ vô hạn
		jobs: registry.NewRegistry[*JobTracker](func(t *JobTracker) {
			t.SetFailed("Job bị hủy khỏi bộ nhớ")
		}),
	}
}

// CreateJob tạo job mới cho một form và đăng ký vào registry
func (m *JobManager) CreateJob(formID, filename string) *JobTracker {
	tracker := newJobTracker(formID, filename)
	m.jobs.Update(tracker.JobID(), tracker)
	return tracker
}

// Get lấy tracker theo jobId
func (m *JobManager) Get(jobID string) (*JobTracker, bool) {
	return m.jobs.Get(jobID)
}

// Count trả về số job đang giữ trong bộ nhớ
func (m *JobManager) Count() int {
	return m.jobs.Count()
}

// EvictFinished gỡ các job đã kết thúc quá retention khỏi bộ nhớ.
// Trả về số job đã gỡ.
func (m *JobManager) EvictFinished(retention time.Duration) int {
	evicted := 0
	cutoff := time.Now().Add(-retention)
	for _, jobID := range m.jobs.Names() {
		tracker, exists := m.jobs.Get(jobID)
		if !exists {
			continue
		}
		finishedAt := tracker.FinishedAt()
		if !finishedAt.IsZero() && finishedAt.Before(cutoff) {
			m.jobs.Delete(jobID)
			evicted++
		}
	}
	return evicted
}
