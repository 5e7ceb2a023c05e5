package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"meta_forms/internal/api/form/engine"
	formmodels "meta_forms/internal/api/form/models"
	formservice "meta_forms/internal/api/form/service"
	"meta_forms/internal/common"
	"meta_forms/internal/logger"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ingestBatchSize là số submission ghi trong một lệnh InsertMany
const ingestBatchSize = 500

// IngestService chạy pipeline bulk ingestion: parse file, đối chiếu
// header với schema, ghi submission theo batch và cập nhật tiến độ job.
type IngestService struct {
	jobs        *JobManager
	forms       *formservice.FormService
	submissions *formservice.SubmissionService
}

// NewIngestService tạo IngestService
func NewIngestService(jobs *JobManager, forms *formservice.FormService, submissions *formservice.SubmissionService) *IngestService {
	return &IngestService{jobs: jobs, forms: forms, submissions: submissions}
}

// Jobs trả về job manager (cho handler stream và worker dọn dẹp)
func (s *IngestService) Jobs() *JobManager {
	return s.jobs
}

// StartIngestion tạo job cho file đã upload và chạy xử lý nền. Trả về
// tracker ngay để handler trả jobId cho client; mọi lỗi sau thời điểm
// này được báo qua trạng thái failed của job, không qua HTTP response.
func (s *IngestService) StartIngestion(ctx context.Context, formID primitive.ObjectID, filename string, fileData []byte) (*JobTracker, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	tracker := s.jobs.CreateJob(formID.Hex(), filename)
	go s.process(tracker, form, filename, fileData)
	return tracker, nil
}

// process chạy trong goroutine riêng cho mỗi job
func (s *IngestService) process(tracker *JobTracker, form formmodels.FormSchema, filename string, fileData []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().Errorf("💥 [INGEST] panic khi xử lý job %s: %v", tracker.JobID(), r)
			tracker.SetFailed(common.MsgInternalError)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	headers, rows, err := parseTabularFile(filename, fileData)
	if err != nil {
		tracker.SetFailed(err.Error())
		return
	}

	mapped, err := engine.ReconcileRows(headers, rows, &form)
	if err != nil {
		tracker.SetFailed(err.Error())
		return
	}

	tracker.SetProcessing(int64(len(mapped)))

	lookup, err := s.buildLookup(ctx, &form)
	if err != nil {
		tracker.SetFailed(err.Error())
		return
	}

	processed := int64(0)
	batch := make([]formmodels.Submission, 0, ingestBatchSize)
	formID, _ := primitive.ObjectIDFromHex(tracker.Snapshot().FormID)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := s.submissions.InsertMany(ctx, batch); err != nil {
			return err
		}
		processed += int64(len(batch))
		batch = batch[:0]
		tracker.SetProgress(processed)
		return nil
	}

	for i, row := range mapped {
		raw := make(map[string]any, len(row))
		for name, value := range row {
			raw[name] = value
		}

		payload, err := engine.BuildSubmissionPayload(&form, raw, lookup)
		if err != nil {
			tracker.SetFailed(fmt.Sprintf("Dòng %d: %s", i+1, err.Error()))
			return
		}
		batch = append(batch, formmodels.Submission{FormID: formID, Data: payload})

		if len(batch) >= ingestBatchSize {
			if err := flush(); err != nil {
				tracker.SetFailed(err.Error())
				return
			}
		}
	}
	if err := flush(); err != nil {
		tracker.SetFailed(err.Error())
		return
	}

	s.forms.RefreshSubmissionCount(ctx, formID)
	tracker.SetCompleted()
	logger.GetAppLogger().Infof("📥 [INGEST] job %s hoàn tất: %d dòng", tracker.JobID(), processed)
}

// buildLookup nạp bảng tra địa bàn qua provider của submission service
func (s *IngestService) buildLookup(ctx context.Context, form *formmodels.FormSchema) (engine.LocationLookup, error) {
	if form.LocationConfig == nil {
		return engine.LocationLookup{}, nil
	}
	return s.submissions.BuildLocationLookup(ctx, form.LocationConfig)
}

// parseTabularFile đọc file upload thành (headers, rows). Hỗ trợ .csv và
// .xlsx theo đuôi file; rows là map header → giá trị ô.
func parseTabularFile(filename string, data []byte) ([]string, []map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(data)
	default:
		return parseCSV(data)
	}
}

// parseCSV đọc CSV, chấp nhận và bỏ BOM UTF-8 đầu file
func parseCSV(data []byte) ([]string, []map[string]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, common.NewError(common.ErrCodeJobProcessing, "File CSV không đọc được: "+err.Error(), common.StatusBadRequest, nil)
	}
	return recordsToRows(records)
}

// parseXLSX đọc sheet đầu tiên của file Excel
func parseXLSX(data []byte) ([]string, []map[string]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, common.NewError(common.ErrCodeJobProcessing, "File Excel không đọc được: "+err.Error(), common.StatusBadRequest, nil)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("File Excel không có sheet nào")
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, common.NewError(common.ErrCodeJobProcessing, "Không đọc được sheet: "+err.Error(), common.StatusBadRequest, nil)
	}
	return recordsToRows(records)
}

// recordsToRows tách dòng header và chuyển các dòng dữ liệu thành map
// header → giá trị. Dòng ngắn hơn header thì ô thiếu coi là rỗng.
func recordsToRows(records [][]string) ([]string, []map[string]string, error) {
	if len(records) == 0 {
		return nil, nil, engine.ErrNoDataFound
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
