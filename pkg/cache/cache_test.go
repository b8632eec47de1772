package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if got := c.String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "plan:x"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "plan:x", []byte(`{"source":"adaptive"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "plan:x")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"source":"adaptive"}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "plan:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "plan:x"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "plan:x"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := PlanKeyOpts{Format: "square", Objective: "awareness", Align: "auto"}

	a := k.PlanKey("img", base)
	if a != k.PlanKey("img", base) {
		t.Error("PlanKey should be deterministic")
	}
	if !strings.HasPrefix(a, "plan:") {
		t.Errorf("PlanKey = %q, want plan: prefix", a)
	}

	variants := []PlanKeyOpts{
		{Format: "story", Objective: "awareness", Align: "auto"},
		{Format: "square", Objective: "offer", Align: "auto"},
		{Format: "square", Objective: "awareness", Align: "left"},
		{Format: "square", Objective: "awareness", Align: "auto", AvoidCenter: true},
		{Format: "square", Objective: "awareness", Align: "auto", Tuning: "v2"},
	}
	for _, v := range variants {
		if k.PlanKey("img", v) == a {
			t.Errorf("PlanKey(%+v) collides with base", v)
		}
	}
	if k.PlanKey("other", base) == a {
		t.Error("different image hash should change the key")
	}
	if !strings.HasPrefix(k.ImageKey("https://x/y.png"), "image:") {
		t.Error("ImageKey should carry image: prefix")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "brand:acme:")
	opts := PlanKeyOpts{Format: "square"}

	got := scoped.PlanKey("img", opts)
	want := "brand:acme:" + inner.PlanKey("img", opts)
	if got != want {
		t.Errorf("PlanKey = %q, want %q", got, want)
	}
	if got := scoped.ImageKey("u"); got != "brand:acme:"+inner.ImageKey("u") {
		t.Errorf("ImageKey = %q", got)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if nilInner.PlanKey("img", opts) != "p:"+inner.PlanKey("img", opts) {
		t.Error("nil inner should fall back to the default keyer")
	}
}

func TestKindOf(t *testing.T) {
	k := NewDefaultKeyer()
	scoped := NewScopedKeyer(k, "brand:acme:")
	tests := []struct {
		key  string
		want string
	}{
		{k.PlanKey("img", PlanKeyOpts{Format: "square"}), KindPlan},
		{k.ImageKey("https://cdn.example.com/hero.jpg"), KindImage},
		{scoped.PlanKey("img", PlanKeyOpts{}), KindPlan},
		{scoped.ImageKey("u"), KindImage},
		{"k", KindOther},
		{"session:abc", KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.key); got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheGroupsByKind(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	k := NewDefaultKeyer()
	plans := []string{
		k.PlanKey("a", PlanKeyOpts{Format: "square"}),
		k.PlanKey("a", PlanKeyOpts{Format: "story"}),
	}
	img := k.ImageKey("https://cdn.example.com/hero.jpg")
	for _, key := range append(plans, img) {
		if err := c.Set(ctx, key, []byte(`{"w":1080}`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.HasPrefix(c.path(plans[0]), c.Dir()+string(os.PathSeparator)+KindPlan) {
		t.Errorf("plan stored at %s", c.path(plans[0]))
	}

	usage, err := c.Usage()
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if usage[KindPlan].Entries != 2 || usage[KindImage].Entries != 1 {
		t.Errorf("Usage = %+v, want 2 plans and 1 image", usage)
	}
	if usage[KindPlan].Bytes == 0 {
		t.Error("Usage reported zero plan bytes")
	}

	n, err := c.Clear(KindPlan)
	if err != nil || n != 2 {
		t.Fatalf("Clear(plan) = %d, %v; want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, img); !hit {
		t.Error("clearing plans dropped the fetched image")
	}
	if _, hit, _ := c.Get(ctx, plans[1]); hit {
		t.Error("plan survived Clear(plan)")
	}
}

func TestFileCacheUsageEmpty(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	usage, err := c.Usage()
	if err != nil || len(usage) != 0 {
		t.Errorf("Usage() = %v, %v; want empty", usage, err)
	}
	if n, err := c.Clear(KindImage); err != nil || n != 0 {
		t.Errorf("Clear(image) on empty cache = %d, %v", n, err)
	}
}
