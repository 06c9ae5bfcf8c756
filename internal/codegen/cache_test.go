package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"lrgen/internal/project"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.StringDigest("model")
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	in := &Output{
		Digest:  key.Hex(),
		Enums:   []Enum{{Number: 0, Name: "YYSYMBOL_YYEOF", Symbol: "YYEOF", Term: true}},
		Actions: []Action{{Rule: 0, Text: "class: %empty", Code: "(yyval.i) = 0;"}},
		Cached:  true,
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.Cached {
		t.Error("Cached is a run flag and must not be persisted")
	}
	if out.Actions[0] != in.Actions[0] || out.Enums[0] != in.Enums[0] {
		t.Errorf("got %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Error("DropAll must remove entries")
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.StringDigest("old")
	data, err := msgpack.Marshal(&cachePayload{Schema: cacheSchemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Errorf("schema mismatch: ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(p, []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cache.Get(key); err == nil {
		t.Error("corrupt entry must be reported")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(project.Digest{}, &Output{}); err != nil {
		t.Error(err)
	}
	if _, ok, err := c.Get(project.Digest{}); ok || err != nil {
		t.Errorf("nil cache: ok=%v err=%v", ok, err)
	}
}
