// Package exports renders completed audit sessions into report artifacts
// (a JSON report document and a verification QR code) and stores them.
package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"energy_audit_backend/internal/adapters/storage"
	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/platform/apperr"
	"energy_audit_backend/platform/logger"
)

// SessionSource loads audit sessions for export.
type SessionSource interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}

// ObjectStore is the slice of the storage service the exporter needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

// ReportExport describes the stored artifacts for one exported report.
type ReportExport struct {
	AuditID     uuid.UUID `json:"auditId"`
	DocumentKey string    `json:"documentKey"`
	QRCodeKey   string    `json:"qrCodeKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Service exports audit reports to object storage.
type Service struct {
	sessions SessionSource
	store    ObjectStore
	bucket   string
	baseURL  string
	log      *logger.Logger
}

func New(sessions SessionSource, store ObjectStore, bucket, baseURL string, log *logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		store:    store,
		bucket:   bucket,
		baseURL:  baseURL,
		log:      log,
	}
}

// reportEnvelope is the exported document: the full session plus export metadata.
type reportEnvelope struct {
	GeneratedAt     time.Time       `json:"generatedAt"`
	Standard        string          `json:"standard"`
	VerificationURL string          `json:"verificationUrl"`
	Session         *domain.Session `json:"session"`
}

// ExportReport renders the report document for a completed audit and uploads
// it together with a verification QR code.
func (s *Service) ExportReport(ctx context.Context, auditID uuid.UUID) (*ReportExport, error) {
	sess, err := s.sessions.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseReporting && sess.Phase != domain.PhaseCompleted {
		return nil, apperr.Conflict(fmt.Sprintf("audit in phase %q has no report to export", sess.Phase))
	}

	verificationURL := s.verificationURL(auditID)

	doc, err := json.MarshalIndent(reportEnvelope{
		GeneratedAt:     time.Now().UTC(),
		Standard:        "STN EN 16247",
		VerificationURL: verificationURL,
		Session:         sess,
	}, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marshal report document", err)
	}

	folder := auditID.String()
	docKey, err := s.store.UploadFile(ctx, s.bucket, folder, "report.json", "application/json", bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "upload report document", err)
	}

	qrPNG, err := qrcode.Encode(verificationURL, qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode verification qr", err)
	}
	qrKey, err := s.store.UploadFile(ctx, s.bucket, folder, "verification.png", "image/png", bytes.NewReader(qrPNG), int64(len(qrPNG)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "upload verification qr", err)
	}

	presigned, err := s.store.GenerateDownloadURL(ctx, s.bucket, docKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "presign report document", err)
	}

	s.log.Info("audit report exported", "auditId", auditID, "documentKey", docKey)
	return &ReportExport{
		AuditID:     auditID,
		DocumentKey: docKey,
		QRCodeKey:   qrKey,
		DownloadURL: presigned.URL,
		ExportedAt:  time.Now().UTC(),
	}, nil
}

func (s *Service) verificationURL(auditID uuid.UUID) string {
	base := strings.TrimRight(s.baseURL, "/")
	return base + "/api/v1/audits/" + auditID.String()
}
