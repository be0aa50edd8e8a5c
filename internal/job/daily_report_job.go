package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"photodrop/internal/pkg/timeutil"
	"photodrop/internal/repo"
)

// DailyReportJob logs the previous local day's upload count per account.
// It only reads the ledger; failures never affect request serving.
type DailyReportJob struct {
	uploads *repo.UploadRepo
}

func NewDailyReportJob(uploads *repo.UploadRepo) *DailyReportJob {
	return &DailyReportJob{uploads: uploads}
}

func (j *DailyReportJob) Name() string {
	return "daily_upload_report"
}

func (j *DailyReportJob) Run(ctx context.Context) error {
	if j.uploads == nil {
		return nil
	}
	today := timeutil.StartOfDay(time.Now())
	yesterday := timeutil.StartOfDay(today.Add(-time.Hour))
	counts, err := j.uploads.CountByEmailBetween(ctx, yesterday.UnixMilli(), today.UnixMilli())
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("day", yesterday.Format("2006-01-02")))
	total := 0
	for email, count := range counts {
		total += count
		logger.Info("daily uploads", zap.String("email", email), zap.Int("count", count))
	}
	logger.Info("daily upload report", zap.Int("accounts", len(counts)), zap.Int("total", total))
	return nil
}
