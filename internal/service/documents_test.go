package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hyodin/dollkongbot/internal/hierarchy"
	"github.com/hyodin/dollkongbot/internal/indexer"
	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/service"
	"github.com/hyodin/dollkongbot/internal/service/mocks"
	"github.com/hyodin/dollkongbot/internal/storage"
	storage_mocks "github.com/hyodin/dollkongbot/internal/storage/mocks"
)

func newTestDocumentService(t *testing.T) (service.DocumentService, *mocks.MockIngester, *storage_mocks.MockDocumentStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ingester := mocks.NewMockIngester(ctrl)
	docRepo := storage_mocks.NewMockDocumentStore(ctrl)
	return service.NewDocumentService(ingester, docRepo), ingester, docRepo
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		fileName  string
		setup     func(*mocks.MockIngester)
		wantField bool
		wantErr   error
	}{
		{
			name:     "success",
			fileName: "faq.xlsx",
			setup: func(m *mocks.MockIngester) {
				m.EXPECT().Ingest(gomock.Any(), "faq.xlsx", gomock.Any()).Return(&indexer.Report{DocumentID: "d1", Chunks: 2}, nil)
			},
		},
		{
			name:     "path components are stripped",
			fileName: "../../etc/faq.csv",
			setup: func(m *mocks.MockIngester) {
				m.EXPECT().Ingest(gomock.Any(), "faq.csv", gomock.Any()).Return(&indexer.Report{DocumentID: "d2"}, nil)
			},
		},
		{name: "missing name", fileName: " ", wantField: true},
		{name: "unsupported extension", fileName: "faq.pdf", wantField: true},
		{
			name:     "parse error",
			fileName: "faq.xlsx",
			setup: func(m *mocks.MockIngester) {
				m.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &hierarchy.DocumentParseError{Document: "faq.xlsx", Sheet: "FAQ", Err: hierarchy.ErrNoHeader})
			},
			wantField: true,
		},
		{
			name:     "timeout",
			fileName: "faq.xlsx",
			setup: func(m *mocks.MockIngester) {
				m.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &retrieval.TimeoutError{Op: "embed", Attempts: 2, Err: context.DeadlineExceeded})
			},
			wantErr: service.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ingester, _ := newTestDocumentService(t)
			if tt.setup != nil {
				tt.setup(ingester)
			}

			report, err := svc.Upload(ctx, tt.fileName, strings.NewReader("data"))
			switch {
			case tt.wantField:
				var validationErr *service.ValidationError
				if !errors.As(err, &validationErr) || validationErr.Field != "file" {
					t.Errorf("error = %v, want file ValidationError", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil || report == nil {
					t.Errorf("Upload() = %v, %v", report, err)
				}
			}
		})
	}
}

func TestDocumentService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, ingester, docRepo := newTestDocumentService(t)

	docRepo.EXPECT().List(gomock.Any()).Return([]storage.Document{{ID: "d1", FileName: "faq.xlsx"}}, nil)
	docs, err := svc.List(ctx)
	if err != nil || len(docs) != 1 {
		t.Fatalf("List() = %v, %v", docs, err)
	}

	ingester.EXPECT().Delete(gomock.Any(), "d1").Return(nil)
	if err := svc.Delete(ctx, "d1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	ingester.EXPECT().Delete(gomock.Any(), "missing").Return(storage.ErrNotFound)
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}

	var validationErr *service.ValidationError
	if err := svc.Delete(ctx, ""); !errors.As(err, &validationErr) {
		t.Errorf("Delete(\"\") error = %v, want ValidationError", err)
	}

	docRepo.EXPECT().List(gomock.Any()).Return(nil, errors.New("disk I/O error"))
	if _, err := svc.List(ctx); err == nil {
		t.Error("List() expected error")
	}
}
