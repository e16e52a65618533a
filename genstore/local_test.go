package genstore

import (
	"context"
	"testing"
)

func TestLocalCurrentStartsEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()
	t.Cleanup(func() { _ = s.Close(ctx) })

	cur, err := s.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cur != "" {
		t.Fatalf("expected no current label, got %q", cur)
	}
}

func TestLocalRegisterAndPromote(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if err := s.Register(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Register(ctx, "v1"); err != nil { // idempotent
		t.Fatal(err)
	}
	// SetCurrent registers unknown labels on the fly.
	if err := s.SetCurrent(ctx, "v2"); err != nil {
		t.Fatal(err)
	}

	cur, err := s.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cur != "v2" {
		t.Fatalf("current=%q want v2", cur)
	}

	labels, err := s.Labels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 2 || labels[0] != "v1" || labels[1] != "v2" {
		t.Fatalf("labels=%v want [v1 v2] sorted", labels)
	}
}

func TestLocalMembershipAndDrop(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if err := s.SetCurrent(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"asset:v1:GET /b", "asset:v1:GET /a", "asset:v1:GET /a"} {
		if err := s.AddKey(ctx, "v1", k); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	// set semantics, sorted output
	if len(keys) != 2 || keys[0] != "asset:v1:GET /a" || keys[1] != "asset:v1:GET /b" {
		t.Fatalf("keys=%v", keys)
	}

	if err := s.Drop(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	keys, err = s.Keys(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys after drop, got %v", keys)
	}
	// dropping the current label clears current
	cur, err := s.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cur != "" {
		t.Fatalf("current=%q want empty after drop", cur)
	}
}

func TestLocalKeysUnknownLabelEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()
	t.Cleanup(func() { _ = s.Close(ctx) })

	keys, err := s.Keys(ctx, "never-registered")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty, got %v", keys)
	}
}
