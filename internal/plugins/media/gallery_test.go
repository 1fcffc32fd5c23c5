package media

import (
	"context"
	"testing"
)

// The gallery contract is a set: Link and Unlink must be idempotent so the
// ingest pipeline can call them without read-modify-write cycles. The
// production implementation gets this from the composite primary key on
// panchayat_gallery (INSERT IGNORE / DELETE); the in-memory fake must hold
// the same contract for the service tests to mean anything.

func TestGallery_LinkIsIdempotent(t *testing.T) {
	g := newFakeGallery()
	ctx := context.Background()

	if err := g.Link(ctx, "gp-simrol", "m-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Link(ctx, "gp-simrol", "m-1"); err != nil {
		t.Fatalf("second link of the same pair must succeed, got %v", err)
	}

	ids, err := g.ListMediaIDs(ctx, "gp-simrol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "m-1" {
		t.Errorf("gallery = %v, want exactly one m-1 entry", ids)
	}
}

func TestGallery_UnlinkAbsentPairIsNoOp(t *testing.T) {
	g := newFakeGallery()
	ctx := context.Background()

	if err := g.Unlink(ctx, "gp-simrol", "m-missing"); err != nil {
		t.Fatalf("unlinking an absent pair must be a no-op, got %v", err)
	}

	if err := g.Link(ctx, "gp-simrol", "m-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Unlink(ctx, "gp-simrol", "m-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Unlink(ctx, "gp-simrol", "m-1"); err != nil {
		t.Fatalf("double unlink must be a no-op, got %v", err)
	}

	ids, err := g.ListMediaIDs(ctx, "gp-simrol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("gallery = %v, want empty", ids)
	}
}
