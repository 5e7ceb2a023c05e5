package formclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeServer mô phỏng server form engine: nhận upload rồi phát một kịch
// bản event NDJSON cho stream tiến độ.
func fakeServer(t *testing.T, jobID string, eventLines []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/uploads/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				t.Errorf("upload không phải multipart hợp lệ: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("upload thiếu field 'file': %v", err)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			fmt.Fprintf(w, `{"code":200,"message":"ok","status":"success","data":{"jobId":"%s"}}`, jobID)
		case http.MethodGet:
			if got := r.URL.Query().Get("jobId"); got != jobID {
				http.Error(w, "job không tồn tại", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
			flusher := w.(http.Flusher)
			for _, line := range eventLines {
				fmt.Fprintln(w, line)
				flusher.Flush()
			}
		default:
			http.Error(w, "method không hỗ trợ", http.StatusMethodNotAllowed)
		}
	})

	return httptest.NewServer(mux)
}

func TestUploadSubmissions_HappyPath(t *testing.T) {
	events := []string{
		`{"jobId":"j1","status":"processing","processedRows":0,"totalRows":10}`,
		`{"jobId":"khac","status":"failed","processedRows":0,"error":"job khác, phải bị bỏ qua"}`,
		`{"jobId":"j1","status":"processing","processedRows":5,"totalRows":10}`,
		`{"jobId":"j1","status":"completed","processedRows":10,"totalRows":10}`,
	}
	server := fakeServer(t, "j1", events)
	defer server.Close()

	var mu sync.Mutex
	uploadPcts := []float64{}
	jobPcts := []float64{}
	completed := make(chan struct{})
	completedCalls := 0
	failedCalled := false

	client := New(server.URL)
	upload, err := client.UploadSubmissions(context.Background(), "686f00", "members.csv",
		strings.NewReader("Name\nAsha\n"), Callbacks{
			OnUploadProgress: func(pct float64) {
				mu.Lock()
				uploadPcts = append(uploadPcts, pct)
				mu.Unlock()
			},
			OnJobProgress: func(pct float64, processed, total int64, totalKnown bool) {
				mu.Lock()
				jobPcts = append(jobPcts, pct)
				mu.Unlock()
			},
			OnCompleted: func() {
				mu.Lock()
				completedCalls++
				mu.Unlock()
				close(completed)
			},
			OnFailed: func(err error) {
				mu.Lock()
				failedCalled = true
				mu.Unlock()
			},
		})
	if err != nil {
		t.Fatalf("upload thất bại: %v", err)
	}
	defer upload.Close()

	if upload.JobID() != "j1" {
		t.Errorf("jobId sai: %s", upload.JobID())
	}

	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("không nhận được OnCompleted")
	}

	mu.Lock()
	defer mu.Unlock()

	// Tiến độ upload phải đơn điệu tăng và kết thúc ở 100
	for i := 1; i < len(uploadPcts); i++ {
		if uploadPcts[i] < uploadPcts[i-1] {
			t.Errorf("tiến độ upload bị lùi: %v", uploadPcts)
		}
	}
	if len(uploadPcts) == 0 || uploadPcts[len(uploadPcts)-1] != 100 {
		t.Errorf("tiến độ upload phải chạm 100, nhận %v", uploadPcts)
	}

	// Event của job khác phải bị bỏ qua: không có failed
	if failedCalled {
		t.Error("event failed của job khác phải bị lọc theo jobId")
	}
	if completedCalls != 1 {
		t.Errorf("OnCompleted phải được gọi đúng 1 lần, nhận %d", completedCalls)
	}
	if len(jobPcts) == 0 || jobPcts[len(jobPcts)-1] != 100 {
		t.Errorf("tiến độ job phải kết thúc ở 100, nhận %v", jobPcts)
	}
	if upload.State() != StateCompleted {
		t.Errorf("trạng thái cuối phải là completed, nhận %s", upload.State())
	}
}

func TestUploadSubmissions_JobFailed(t *testing.T) {
	events := []string{
		`{"jobId":"j2","status":"processing","processedRows":0}`,
		`{"jobId":"j2","status":"failed","processedRows":0,"error":"Header file không khớp với form"}`,
	}
	server := fakeServer(t, "j2", events)
	defer server.Close()

	failed := make(chan error, 1)
	client := New(server.URL)
	upload, err := client.UploadSubmissions(context.Background(), "686f00", "members.csv",
		strings.NewReader("x"), Callbacks{
			OnFailed: func(err error) { failed <- err },
			OnCompleted: func() {
				t.Error("job failed không được gọi OnCompleted")
			},
		})
	if err != nil {
		t.Fatalf("upload thất bại: %v", err)
	}
	defer upload.Close()

	select {
	case err := <-failed:
		var jobErr *JobError
		if !errors.As(err, &jobErr) {
			t.Fatalf("muốn *JobError, nhận %T", err)
		}
		if jobErr.Message != "Header file không khớp với form" {
			t.Errorf("message lỗi sai: %s", jobErr.Message)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("không nhận được OnFailed")
	}

	if upload.State() != StateFailed {
		t.Errorf("trạng thái phải là failed, nhận %s", upload.State())
	}
}

func TestUploadSubmissions_StreamCutIsNotJobFailure(t *testing.T) {
	// Server đóng stream khi job còn processing: đây là "không theo dõi
	// được tiến độ", không phải job thất bại
	events := []string{
		`{"jobId":"j3","status":"processing","processedRows":1}`,
	}
	server := fakeServer(t, "j3", events)
	defer server.Close()

	unavailable := make(chan error, 1)
	client := New(server.URL)
	upload, err := client.UploadSubmissions(context.Background(), "686f00", "members.csv",
		strings.NewReader("x"), Callbacks{
			OnProgressUnavailable: func(err error) { unavailable <- err },
			OnFailed: func(err error) {
				t.Error("đứt stream không được báo job failed")
			},
		})
	if err != nil {
		t.Fatalf("upload thất bại: %v", err)
	}
	defer upload.Close()

	select {
	case err := <-unavailable:
		if !errors.Is(err, ErrProgressUnavailable) {
			t.Errorf("muốn ErrProgressUnavailable, nhận %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("không nhận được OnProgressUnavailable")
	}

	if upload.State() != StateProcessing {
		t.Errorf("mất stream thì trạng thái vẫn là processing, nhận %s", upload.State())
	}
}

func TestBulkUpload_CloseIdempotent(t *testing.T) {
	events := []string{
		`{"jobId":"j4","status":"processing","processedRows":0}`,
	}
	server := fakeServer(t, "j4", events)
	defer server.Close()

	client := New(server.URL)
	upload, err := client.UploadSubmissions(context.Background(), "686f00", "members.csv",
		strings.NewReader("x"), Callbacks{})
	if err != nil {
		t.Fatalf("upload thất bại: %v", err)
	}

	// Cancel, cleanup khi unmount và cleanup khi job xong đều đi qua
	// cùng một Close; gọi lặp từ nhiều goroutine phải an toàn
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			upload.Close()
		}()
	}
	wg.Wait()
	upload.Close()
}

func TestUploadSubmissions_ServerRejectsUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quá lớn", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.UploadSubmissions(context.Background(), "686f00", "members.csv",
		strings.NewReader("x"), Callbacks{})
	if err == nil {
		t.Fatal("server từ chối upload thì phải trả lỗi ngay, không tạo phiên")
	}
}
