package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"energy_audit_backend/internal/adapters/storage"
	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/platform/apperr"
	"energy_audit_backend/platform/logger"
)

type fakeSessions struct {
	sessions map[uuid.UUID]*domain.Session
}

func (f *fakeSessions) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperr.NotFound("audit session not found")
	}
	return s, nil
}

type uploadedObject struct {
	bucket      string
	contentType string
	data        []byte
}

type fakeStore struct {
	objects map[string]uploadedObject
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]uploadedObject)}
}

func (f *fakeStore) UploadFile(_ context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	key := folder + "/" + fileName
	f.objects[key] = uploadedObject{bucket: bucket, contentType: contentType, data: data}
	return key, nil
}

func (f *fakeStore) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	if _, ok := f.objects[fileKey]; !ok {
		return nil, errors.New("object not found")
	}
	return &storage.PresignedURL{
		URL:       "https://storage.example.com/" + bucket + "/" + fileKey + "?sig=test",
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(storage.PresignedURLTTL),
	}, nil
}

func reportingSession(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := domain.NewSession(uuid.New(), domain.AuditBuilding, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.Phase = domain.PhaseReporting
	return sess
}

func newTestService(t *testing.T, sess *domain.Session) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	sessions := &fakeSessions{sessions: map[uuid.UUID]*domain.Session{}}
	if sess != nil {
		sessions.sessions[sess.ID] = sess
	}
	svc := New(sessions, store, "audit-reports", "https://audits.example.com/", logger.New("test"))
	return svc, store
}

func TestExportReportUploadsDocumentAndQR(t *testing.T) {
	sess := reportingSession(t)
	svc, store := newTestService(t, sess)

	export, err := svc.ExportReport(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}

	doc, ok := store.objects[export.DocumentKey]
	if !ok {
		t.Fatalf("document %q not uploaded", export.DocumentKey)
	}
	if doc.contentType != "application/json" {
		t.Fatalf("document content type = %q", doc.contentType)
	}
	if doc.bucket != "audit-reports" {
		t.Fatalf("document bucket = %q", doc.bucket)
	}

	var envelope struct {
		Standard        string          `json:"standard"`
		VerificationURL string          `json:"verificationUrl"`
		Session         *domain.Session `json:"session"`
	}
	if err := json.Unmarshal(doc.data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Standard != "STN EN 16247" {
		t.Fatalf("standard = %q", envelope.Standard)
	}
	wantURL := "https://audits.example.com/api/v1/audits/" + sess.ID.String()
	if envelope.VerificationURL != wantURL {
		t.Fatalf("verification url = %q, want %q", envelope.VerificationURL, wantURL)
	}
	if envelope.Session == nil || envelope.Session.ID != sess.ID {
		t.Fatalf("exported session = %+v", envelope.Session)
	}

	qr, ok := store.objects[export.QRCodeKey]
	if !ok {
		t.Fatalf("qr code %q not uploaded", export.QRCodeKey)
	}
	if qr.contentType != "image/png" {
		t.Fatalf("qr content type = %q", qr.contentType)
	}
	if !bytes.HasPrefix(qr.data, []byte("\x89PNG")) {
		t.Fatal("qr payload is not a PNG")
	}

	if !strings.Contains(export.DownloadURL, export.DocumentKey) {
		t.Fatalf("download url %q does not reference document key", export.DownloadURL)
	}
}

func TestExportReportRejectsEarlyPhases(t *testing.T) {
	sess := reportingSession(t)
	sess.Phase = domain.PhaseDataCollection
	svc, store := newTestService(t, sess)

	_, err := svc.ExportReport(context.Background(), sess.ID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want conflict", apperr.GetKind(err))
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected no uploads, got %d", len(store.objects))
	}
}

func TestExportReportCompletedPhaseAllowed(t *testing.T) {
	sess := reportingSession(t)
	sess.Phase = domain.PhaseCompleted
	svc, _ := newTestService(t, sess)

	if _, err := svc.ExportReport(context.Background(), sess.ID); err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
}

func TestExportReportUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ExportReport(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not found", apperr.GetKind(err))
	}
}
