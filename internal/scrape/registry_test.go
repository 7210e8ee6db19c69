package scrape

import (
	"context"
	"strings"
	"testing"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(util.NewHostLimiter(1, 2), "test-agent")

	for _, key := range []string{"greenhouse", "lever", "ashby", "workable", "polymer", "generic"} {
		a, err := r.Resolve(key)
		if err != nil {
			t.Errorf("Resolve(%q): %v", key, err)
			continue
		}
		if a.Platform() != key {
			t.Errorf("Resolve(%q).Platform() = %q", key, a.Platform())
		}
	}
}

func TestRegistryUnsupportedPlatform(t *testing.T) {
	r := NewRegistry(nil, "test-agent")
	_, err := r.Resolve("taleo")
	if err == nil {
		t.Fatal("want error for unknown platform")
	}
	if !strings.Contains(err.Error(), `unsupported platform "taleo"`) {
		t.Fatalf("error = %v", err)
	}
}

type fakeAdapter struct{ key string }

func (f fakeAdapter) Platform() string { return f.key }
func (f fakeAdapter) FetchJobs(context.Context, domain.Company) ([]domain.NormalizedJob, error) {
	return nil, nil
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := NewRegistry(nil, "test-agent")
	r.Register(fakeAdapter{key: "lever"})

	a, err := r.Resolve("lever")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(fakeAdapter); !ok {
		t.Fatal("Register should replace the built-in adapter")
	}
}
