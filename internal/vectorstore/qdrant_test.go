package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestGRPCConfig(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{
			name:     "default REST port",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "compose service name",
			urlStr:   "http://qdrant:9000",
			wantHost: "qdrant",
			wantPort: 9001,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := grpcConfig(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("grpcConfig() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("grpcConfig() error = %v", err)
			}
			if cfg.Host != tt.wantHost || cfg.Port != tt.wantPort {
				t.Errorf("grpcConfig() = %s:%d, want %s:%d", cfg.Host, cfg.Port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid"); err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_EarlyReturns(t *testing.T) {
	// No client: these must return before touching it.
	store := &QdrantStore{}
	ctx := context.Background()

	if err := store.Upsert(ctx, "c", nil); err != nil {
		t.Errorf("Upsert() with no points error = %v", err)
	}
	if err := store.Delete(ctx, "c", nil); err != nil {
		t.Errorf("Delete() with no ids error = %v", err)
	}
	if _, err := store.Search(ctx, "c", []float32{1}, 0, SearchOptions{}); err == nil {
		t.Error("Search() with k=0 expected error")
	}
}

func TestMatchFilter(t *testing.T) {
	if matchFilter(nil) != nil {
		t.Error("matchFilter(nil) should be nil")
	}

	f := matchFilter(map[string]any{PayloadSourceDocID: "doc-1", PayloadRow: 3})
	if f == nil || len(f.Must) != 2 {
		t.Fatalf("matchFilter() = %+v, want 2 conditions", f)
	}
	for _, c := range f.Must {
		field := c.GetField()
		if field == nil {
			t.Fatalf("condition %+v is not a field condition", c)
		}
		switch field.Key {
		case PayloadSourceDocID:
			if field.Match.GetKeyword() != "doc-1" {
				t.Errorf("source match = %+v", field.Match)
			}
		case PayloadRow:
			if field.Match.GetInteger() != 3 {
				t.Errorf("row match = %+v", field.Match)
			}
		default:
			t.Errorf("unexpected key %s", field.Key)
		}
	}
}

func TestPayloadMap(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		PayloadLvl1: "복지",
		PayloadRow:  2,
		"nested":    map[string]any{"ok": true},
	})

	got := payloadMap(payload)
	if MetaString(got, PayloadLvl1) != "복지" {
		t.Errorf("lvl1 = %v", got[PayloadLvl1])
	}
	if MetaString(got, PayloadRow) != "2" {
		t.Errorf("row = %v", got[PayloadRow])
	}
	nested, ok := got["nested"].(map[string]any)
	if !ok || nested["ok"] != true {
		t.Errorf("nested = %v", got["nested"])
	}
}
