// Package worker chứa các worker nền chạy theo chu kỳ.
package worker

import (
	"context"
	"time"

	uploadservice "meta_forms/internal/api/upload/service"
	"meta_forms/internal/logger"
)

// StartJobCleanupWorker chạy vòng lặp dọn các job ingestion đã kết thúc
// quá thời gian retention khỏi bộ nhớ. Job là dữ liệu phù du nên chỉ cần
// giữ đủ lâu cho client đọc nốt trạng thái cuối.
func StartJobCleanupWorker(ctx context.Context, jobs *uploadservice.JobManager, interval, retention time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.GetAppLogger().Infof("🧹 [JOB_CLEANUP] worker khởi động, chu kỳ %s, retention %s", interval, retention)

		for {
			select {
			case <-ctx.Done():
				logger.GetAppLogger().Info("🧹 [JOB_CLEANUP] worker dừng")
				return
			case <-ticker.C:
				runCleanup(jobs, retention)
			}
		}
	}()
}

// runCleanup chạy một lượt evict, có recover để một lượt lỗi không giết worker
func runCleanup(jobs *uploadservice.JobManager, retention time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().Errorf("🧹 [JOB_CLEANUP] panic: %v", r)
		}
	}()

	if evicted := jobs.EvictFinished(retention); evicted > 0 {
		logger.GetAppLogger().Infof("🧹 [JOB_CLEANUP] đã gỡ %d job, còn %d", evicted, jobs.Count())
	}
}
