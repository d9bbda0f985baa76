package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"stocky/internal/analytics"
	"stocky/internal/export"

	"go.uber.org/zap"
)

// ArchiveLinkExpiry is how long the link logged for an archived report stays valid.
const ArchiveLinkExpiry = 7 * 24 * time.Hour

type ArchivedReport struct {
	Bucket string `json:"bucket"`
	Object string `json:"object"`
	URL    string `json:"url,omitempty"`
	Size   int    `json:"size"`
}

// ArchiveService renders the current report and uploads it to object storage.
type ArchiveService interface {
	Archive(ctx context.Context, format export.Format) (*ArchivedReport, error)
}

type archiveService struct {
	analytics    analytics.Service
	minioService MinioService
	bucket       string
	now          func() time.Time
	log          *zap.Logger
}

func NewArchiveService(analyticsService analytics.Service, minioService MinioService, bucket string, log *zap.Logger) ArchiveService {
	return &archiveService{
		analytics:    analyticsService,
		minioService: minioService,
		bucket:       bucket,
		now:          time.Now,
		log:          log,
	}
}

// ArchiveObjectName is reports/<YYYY-MM-DD>/stock-report-<stamp>.<ext>.
func ArchiveObjectName(format export.Format, at time.Time) string {
	return path.Join("reports", at.Format("2006-01-02"), export.FileName(format, at))
}

func (s *archiveService) Archive(ctx context.Context, format export.Format) (*ArchivedReport, error) {
	report, err := s.analytics.Report(ctx)
	if err != nil {
		return nil, err
	}

	data, err := export.Render(format, report)
	if err != nil {
		return nil, err
	}

	if err := s.minioService.EnsureBucketExists(ctx, s.bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", s.bucket, err)
	}

	objectName := ArchiveObjectName(format, s.now())
	if err := s.minioService.UploadObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), format.ContentType()); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	archived := &ArchivedReport{Bucket: s.bucket, Object: objectName, Size: len(data)}
	url, err := s.minioService.GetPresignedURL(ctx, s.bucket, objectName, ArchiveLinkExpiry)
	if err != nil {
		s.log.Warn("Failed to presign archived report", zap.String("object", objectName), zap.Error(err))
	} else {
		archived.URL = url
	}

	s.log.Info("Report archived", zap.String("bucket", s.bucket), zap.String("object", objectName), zap.Int("size", len(data)))
	return archived, nil
}
