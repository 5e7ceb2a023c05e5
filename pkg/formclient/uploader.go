package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
)

// Callbacks là các hook tiến độ của một phiên bulk upload. Mọi callback
// đều tùy chọn và được gọi tuần tự từ một goroutine duy nhất.
type Callbacks struct {
	// OnUploadProgress nhận phần trăm byte đã gửi (0..100, đơn điệu tăng)
	OnUploadProgress func(percent float64)

	// OnJobProgress nhận tiến độ xử lý phía server. percent chỉ có nghĩa
	// khi totalKnown; khi chưa biết tổng số dòng, percent là -1.
	OnJobProgress func(percent float64, processed int64, total int64, totalKnown bool)

	// OnCompleted được gọi đúng một lần khi job hoàn tất
	OnCompleted func()

	// OnFailed được gọi khi job thất bại (server báo failed hoặc upload
	// hỏng). Không có retry tự động.
	OnFailed func(err error)

	// OnProgressUnavailable được gọi khi stream tiến độ bị đứt. Job
	// KHÔNG thất bại; caller có thể poll trạng thái bằng cách khác.
	OnProgressUnavailable func(err error)
}

// BulkUpload là một phiên upload + theo dõi tiến độ. Tạo qua
// Client.UploadSubmissions; mọi đường kết thúc (cancel, unmount, job
// xong) hội tụ về một lần teardown duy nhất qua Close.
type BulkUpload struct {
	client    *Client
	formID    string
	jobID     string
	callbacks Callbacks

	mu    sync.Mutex
	state State

	watcher       *jobWatcher
	closeOnce     sync.Once
	completedOnce sync.Once
}

// State trả về trạng thái hiện tại của phiên
func (u *BulkUpload) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// JobID trả về id job do server cấp (rỗng cho tới khi upload xong)
func (u *BulkUpload) JobID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.jobID
}

func (u *BulkUpload) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

// Close dừng theo dõi tiến độ và giải phóng kết nối. Idempotent: gọi từ
// cancel, từ cleanup khi job kết thúc, hay gọi lặp đều an toàn. Close
// không hủy job phía server.
func (u *BulkUpload) Close() {
	u.closeOnce.Do(func() {
		u.mu.Lock()
		watcher := u.watcher
		u.mu.Unlock()
		if watcher != nil {
			watcher.Close()
		}
	})
}

// progressReader đếm byte đã đọc và báo phần trăm đơn điệu tăng
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	lastPct  float64
	callback func(percent float64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 && r.callback != nil && r.total > 0 {
		r.read += int64(n)
		pct := float64(r.read) / float64(r.total) * 100
		if pct > 100 {
			pct = 100
		}
		// Đơn điệu: không bao giờ báo lùi
		if pct > r.lastPct {
			r.lastPct = pct
			r.callback(pct)
		}
	}
	return n, err
}

// UploadSubmissions upload file submission cho một form trong MỘT request
// multipart rồi mở stream theo dõi tiến độ job. Trả về phiên BulkUpload
// đang ở trạng thái processing; caller giữ nó để Close khi không quan
// tâm nữa.
func (c *Client) UploadSubmissions(ctx context.Context, formID, filename string, file io.Reader, callbacks Callbacks) (*BulkUpload, error) {
	upload := &BulkUpload{
		client:    c,
		formID:    formID,
		callbacks: callbacks,
		state:     StateIdle,
	}

	// Dựng body multipart trước để biết tổng số byte cho tiến độ upload
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	upload.setState(StateUploading)

	url := fmt.Sprintf("%s/uploads/%s/submissions/upload-chunk", c.baseURL, formID)
	reader := &progressReader{
		reader:   &body,
		total:    int64(body.Len()),
		callback: callbacks.OnUploadProgress,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		upload.setState(StateFailed)
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = reader.total
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upload.setState(StateFailed)
		return nil, fmt.Errorf("formclient: upload thất bại: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		upload.setState(StateFailed)
		return nil, fmt.Errorf("formclient: upload bị từ chối, status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		upload.setState(StateFailed)
		return nil, fmt.Errorf("formclient: response upload không đọc được: %w", err)
	}
	jobID, _ := env.Data["jobId"].(string)
	if jobID == "" {
		upload.setState(StateFailed)
		return nil, fmt.Errorf("formclient: response upload thiếu jobId")
	}

	upload.mu.Lock()
	upload.jobID = jobID
	upload.state = StateProcessing
	upload.mu.Unlock()

	watcher, err := c.openWatcher(ctx, formID, jobID)
	if err != nil {
		// Upload đã xong và job đang chạy; mất stream không phải job fail
		if callbacks.OnProgressUnavailable != nil {
			callbacks.OnProgressUnavailable(fmt.Errorf("%w: %v", ErrProgressUnavailable, err))
		}
		return upload, nil
	}

	upload.mu.Lock()
	upload.watcher = watcher
	upload.mu.Unlock()

	go upload.watch(watcher)
	return upload, nil
}
