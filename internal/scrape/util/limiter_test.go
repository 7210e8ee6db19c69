package util

import (
	"context"
	"testing"
)

func TestHostLimiterSharesBucketPerHost(t *testing.T) {
	hl := NewHostLimiter(100, 2)
	ctx := context.Background()

	for _, raw := range []string{
		"https://API.Lever.co/v0/postings/acme",
		"https://api.lever.co:443/v0/postings/globex",
	} {
		if err := hl.WaitURL(ctx, raw); err != nil {
			t.Fatal(err)
		}
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if len(hl.m) != 1 {
		keys := make([]string, 0, len(hl.m))
		for k := range hl.m {
			keys = append(keys, k)
		}
		t.Fatalf("buckets = %v, want one shared api.lever.co bucket", keys)
	}
	if _, ok := hl.m["api.lever.co"]; !ok {
		t.Fatal("bucket key not normalized to bare lowercase hostname")
	}
}

func TestHostLimiterUnparsableURLFallsBack(t *testing.T) {
	hl := NewHostLimiter(100, 1)
	if err := hl.WaitURL(context.Background(), "not a url"); err != nil {
		t.Fatal(err)
	}
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if _, ok := hl.m["_"]; !ok {
		t.Fatal("fallback bucket not used")
	}
}
