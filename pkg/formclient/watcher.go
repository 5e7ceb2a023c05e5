package formclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// progressEvent là một dòng trên stream tiến độ của server
type progressEvent struct {
	JobID         string `json:"jobId"`
	Status        string `json:"status"`
	ProcessedRows int64  `json:"processedRows"`
	TotalRows     *int64 `json:"totalRows"`
	Error         string `json:"error"`
}

// jobWatcher giữ kết nối stream tiến độ. Handle nằm ngoài mọi state
// "reactive" của caller: Close được gọi từ bất kỳ goroutine nào, bao
// nhiêu lần cũng được.
type jobWatcher struct {
	resp      *http.Response
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Close hủy kết nối stream. Idempotent.
func (w *jobWatcher) Close() {
	w.closeOnce.Do(func() {
		w.cancel()
		w.resp.Body.Close()
	})
}

// openWatcher mở subscription tiến độ scoped theo (formID, jobID)
func (c *Client) openWatcher(ctx context.Context, formID, jobID string) (*jobWatcher, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	url := fmt.Sprintf("%s/uploads/%s/submissions/events?jobId=%s", c.baseURL, formID, jobID)
	req, err := http.NewRequestWithContext(watchCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("stream trả về status %d", resp.StatusCode)
	}

	return &jobWatcher{resp: resp, cancel: cancel}, nil
}

// watch đọc stream tới khi job kết thúc hoặc kết nối đứt. Chạy trong
// goroutine riêng cho mỗi phiên upload.
func (u *BulkUpload) watch(watcher *jobWatcher) {
	defer u.Close()

	scanner := bufio.NewScanner(watcher.resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event progressEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		// Event của job khác (stream dùng lại kết nối cũ, server nhầm
		// lẫn...) bị bỏ qua trong im lặng
		if event.JobID != u.jobID {
			continue
		}

		switch event.Status {
		case "completed":
			u.setState(StateCompleted)
			if u.callbacks.OnJobProgress != nil {
				total := event.ProcessedRows
				if event.TotalRows != nil {
					total = *event.TotalRows
				}
				u.callbacks.OnJobProgress(100, event.ProcessedRows, total, true)
			}
			u.completedOnce.Do(func() {
				if u.callbacks.OnCompleted != nil {
					u.callbacks.OnCompleted()
				}
			})
			return

		case "failed":
			u.setState(StateFailed)
			if u.callbacks.OnFailed != nil {
				u.callbacks.OnFailed(&JobError{JobID: event.JobID, Message: event.Error})
			}
			return

		default:
			if u.callbacks.OnJobProgress == nil {
				continue
			}
			if event.TotalRows != nil && *event.TotalRows > 0 {
				pct := float64(event.ProcessedRows) / float64(*event.TotalRows) * 100
				if pct > 100 {
					pct = 100
				}
				u.callbacks.OnJobProgress(pct, event.ProcessedRows, *event.TotalRows, true)
			} else {
				u.callbacks.OnJobProgress(-1, event.ProcessedRows, 0, false)
			}
		}
	}

	// Stream đứt mà job chưa kết thúc: tiến độ không quan sát được nữa,
	// nhưng job phía server vẫn chạy bình thường
	if u.State() == StateProcessing && u.callbacks.OnProgressUnavailable != nil {
		u.callbacks.OnProgressUnavailable(ErrProgressUnavailable)
	}
}
