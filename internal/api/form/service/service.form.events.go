package service

import (
	"context"
	"time"

	baseservice "meta_forms/internal/api/base/service"
	"meta_forms/internal/api/events"
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/global"
	"meta_forms/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshSubmissionCount đếm lại submission của form và ghi vào
// submissionCount. Field này là cache hiển thị cho dashboard, đếm lại
// toàn phần thay vì inc/dec để tự hồi phục khi lệch.
func (s *FormService) RefreshSubmissionCount(ctx context.Context, formID primitive.ObjectID) {
	count, err := global.GetCollection(global.ColSubmissions).CountDocuments(ctx, bson.M{"formId": formID})
	if err != nil {
		logger.GetAppLogger().Errorf("Không đếm được submission của form %s: %v", formID.Hex(), err)
		return
	}

	_, err = s.UpdateById(ctx, formID, &baseservice.UpdateData{
		Set: bson.M{"submissionCount": count},
	})
	if err != nil {
		logger.GetAppLogger().Errorf("Không cập nhật được submissionCount của form %s: %v", formID.Hex(), err)
	}
}

// RegisterSubmissionCounter đăng ký handler giữ submissionCount của form
// luôn khớp với dữ liệu. Gọi một lần khi khởi tạo server.
func RegisterSubmissionCounter(forms *FormService) {
	events.OnDataChanged(func(event events.DataChangeEvent) {
		if event.CollectionName != global.ColSubmissions {
			return
		}
		submission, ok := event.Document.(models.Submission)
		if !ok {
			// Thao tác hàng loạt (InsertMany/DeleteMany) không mang
			// document; các service gọi RefreshSubmissionCount trực tiếp
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		forms.RefreshSubmissionCount(ctx, submission.FormID)
	})
}
