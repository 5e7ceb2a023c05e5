// Package handler chứa các handler HTTP của domain upload.
package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	basehandler "meta_forms/internal/api/base/handler"
	"meta_forms/internal/api/upload/models"
	"meta_forms/internal/api/upload/service"
	"meta_forms/internal/common"
	"meta_forms/internal/global"
	"meta_forms/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

// UploadHandler xử lý upload file bulk và stream tiến độ job
type UploadHandler struct {
	ingest *service.IngestService
}

// NewUploadHandler tạo UploadHandler
func NewUploadHandler(ingest *service.IngestService) *UploadHandler {
	return &UploadHandler{ingest: ingest}
}

// HandleUploadChunk xử lý POST /uploads/:formId/submissions/upload-chunk.
// File gửi trong một request multipart duy nhất (field "file"); response
// trả về jobId để client mở stream theo dõi tiến độ.
func (h *UploadHandler) HandleUploadChunk(c fiber.Ctx) error {
	formID, err := basehandler.ParseObjectID(c, "formId")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeJobUpload, "Thiếu file upload (field 'file')", common.StatusBadRequest, nil))
	}
	if maxBytes := global.ServerConfig.UploadMaxBytes; maxBytes > 0 && fileHeader.Size > maxBytes {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeJobUpload,
			fmt.Sprintf("File vượt quá giới hạn %d bytes", maxBytes), common.StatusBadRequest, nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeJobUpload, "Không mở được file upload", common.StatusInternalServerError, err.Error()))
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeJobUpload, "Không đọc được file upload", common.StatusInternalServerError, err.Error()))
	}

	tracker, err := h.ingest.StartIngestion(c.Context(), formID, fileHeader.Filename, fileData)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	return basehandler.HandleResponse(c, fiber.Map{"jobId": tracker.JobID()}, nil)
}

// HandleEvents xử lý GET /uploads/:formId/submissions/events?jobId=.
// Response là stream JSON phân dòng (một event mỗi dòng) giữ kết nối mở
// tới khi job kết thúc. Job phải thuộc đúng form trong path.
func (h *UploadHandler) HandleEvents(c fiber.Ctx) error {
	formID, err := basehandler.ParseObjectID(c, "formId")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	jobID := c.Query("jobId")
	if jobID == "" {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu query param jobId", common.StatusBadRequest, nil))
	}

	tracker, exists := h.ingest.Jobs().Get(jobID)
	if !exists || tracker.Snapshot().FormID != formID.Hex() {
		return basehandler.HandleResponse(c, nil, common.ErrJobNotFound)
	}

	c.Set("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		subID, events := tracker.Subscribe()
		defer tracker.Unsubscribe(subID)

		// Event đầu tiên luôn là snapshot hiện tại để client muộn vẫn
		// thấy ngay trạng thái job
		snapshot := tracker.Snapshot()
		if !writeEvent(w, models.ProgressEvent{
			JobID:         snapshot.JobID,
			Status:        snapshot.Status,
			ProcessedRows: snapshot.ProcessedRows,
			TotalRows:     snapshot.TotalRows,
			Error:         snapshot.Error,
		}) {
			return
		}

		for event := range events {
			if !writeEvent(w, event) {
				return
			}
		}
	}))
	return nil
}

// writeEvent ghi một event NDJSON và flush ngay. Trả về false khi client
// đã ngắt kết nối.
func writeEvent(w *bufio.Writer, event models.ProgressEvent) bool {
	line, err := json.Marshal(event)
	if err != nil {
		logger.GetAppLogger().Errorf("Không marshal được progress event: %v", err)
		return false
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return false
	}
	return w.Flush() == nil
}
