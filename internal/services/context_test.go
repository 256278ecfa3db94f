package services_test

import (
	"context"
	"testing"

	"darkroom/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetID(ctx, "A1")
	ctx = services.WithVariant(ctx, "edited")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.AssetIDFromContext(ctx); !ok || id != "A1" {
		t.Fatalf("unexpected asset id: %v %v", id, ok)
	}
	if variant, ok := services.VariantFromContext(ctx); !ok || variant != "edited" {
		t.Fatalf("unexpected variant: %v %v", variant, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestVariantBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVariant(ctx, "")
	if _, ok := services.VariantFromContext(ctx); ok {
		t.Fatal("expected no variant value")
	}
}
