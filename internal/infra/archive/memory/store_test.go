package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"sudokucore/internal/archive/core"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	meta := map[string]string{"state": "playing"}
	obj, err := s.Put(ctx, "saves/a.sav", strings.NewReader("payload"), core.PutOptions{ContentType: "text/plain", Metadata: meta})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if obj.Size != 7 || obj.ETag == "" {
		t.Fatalf("unexpected object %+v", obj)
	}
	meta["state"] = "mutated"

	if _, err := s.Put(ctx, "saves/a.sav", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, rc, err := s.Get(ctx, "saves/a.sav")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "payload" || got.Metadata["state"] != "playing" {
		t.Fatalf("unexpected get %q %+v", body, got)
	}

	_, _ = s.Put(ctx, "saves/b.sav", strings.NewReader("b"), core.PutOptions{})
	_, _ = s.Put(ctx, "other/c", strings.NewReader("c"), core.PutOptions{})
	list, err := s.List(ctx, "saves/")
	if err != nil || len(list) != 2 || list[0].Key != "saves/a.sav" {
		t.Fatalf("list: %+v %v", list, err)
	}

	if ok, _ := s.Delete(ctx, "saves/a.sav"); !ok {
		t.Fatalf("expected delete true")
	}
	if ok, _ := s.Delete(ctx, "saves/a.sav"); ok {
		t.Fatalf("expected delete false")
	}
	if _, err := s.Head(ctx, "saves/a.sav"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.Get(ctx, "saves/a.sav"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.PresignURL(ctx, "saves/b.sav", core.URLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := s.Put(ctx, " ", strings.NewReader(""), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}
