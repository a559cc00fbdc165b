package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_NewSkillIndexed(t *testing.T) {
	root, store, db := syncTestEnv(t)
	for _, dir := range []string{"skills", "prompts", "prompt_configs"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string
	opts := SyncOptions{OnEvent: func(kind models.DocKind, path string, outcome Outcome) {
		mu.Lock()
		events = append(events, string(kind)+":"+path+":"+string(outcome))
		mu.Unlock()
	}}

	go Watch(ctx, db, store, opts, quietLogger())
	time.Sleep(100 * time.Millisecond)

	writeLibFile(t, root, "skills/new.md", "# New Skill\n\nFresh.\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.GetSkillByPath("skills/new.md")
		return err == nil
	}, "new skill not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "skill:skills/new.md:inserted" {
				return true
			}
		}
		return false
	}, "expected inserted callback for skills/new.md")
}

func TestWatch_RemoveKeepsIndexEntry(t *testing.T) {
	root, store, db := syncTestEnv(t)
	writeLibFile(t, root, "skills/keep.md", "# Keep\n\nStays indexed.\n")
	if _, err := SyncAll(db, store, SyncOptions{}, quietLogger()); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, SyncOptions{}, quietLogger())
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(filepath.Join(root, "skills", "keep.md")); err != nil {
		t.Fatal(err)
	}

	// Removal must not reach the index; give the watcher time to misbehave.
	time.Sleep(500 * time.Millisecond)
	if _, err := db.GetSkillByPath("skills/keep.md"); err != nil {
		t.Errorf("index entry gone after file removal: %v", err)
	}
}

func TestWatch_DescriptorTriggersPromptResync(t *testing.T) {
	root, store, db := syncTestEnv(t)
	if err := os.MkdirAll(filepath.Join(root, "prompt_configs"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, SyncOptions{}, quietLogger())
	time.Sleep(100 * time.Millisecond)

	writeLibFile(t, root, "prompt_configs/fresh.yaml", "name: fresh\ntitle: Fresh\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.GetPromptByName("fresh")
		return err == nil
	}, "descriptor change did not trigger a prompt resync")
}

func TestWatch_NewDirPickedUp(t *testing.T) {
	root, store, db := syncTestEnv(t)
	if err := os.MkdirAll(filepath.Join(root, "skills"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, SyncOptions{}, quietLogger())
	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(root, "skills", "deep")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "nested.md"), []byte("# Nested\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.GetSkillByPath("skills/deep/nested.md")
		return err == nil
	}, "file in new subdir not indexed")
}
