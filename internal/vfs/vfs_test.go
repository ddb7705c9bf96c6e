package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOSFS_ReadAndWalk(t *testing.T) {
	fsys := NewOS()
	dir := t.TempDir()
	p := filepath.Join(dir, "ai.leek")
	if err := os.WriteFile(p, []byte("var a = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := fsys.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "var a = 1" {
		t.Fatalf("got %q", string(data))
	}
	var seen int
	if err := fsys.Walk(dir, func(p string, d fs.DirEntry, err error) error {
		if d != nil && !d.IsDir() {
			seen++
		}
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if seen != 1 {
		t.Fatalf("walked %d files", seen)
	}
}

func TestMemFS_ReadStatWalk(t *testing.T) {
	m := NewMem()
	m.WriteFile("/lib/util.leek", []byte("global x"))
	m.WriteFile("main.leek", []byte("include('lib/util.leek')"))

	data, err := m.ReadFile("lib/util.leek")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "global x" {
		t.Fatalf("got %q", data)
	}
	if _, err := m.ReadFile("missing.leek"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	info, err := m.Stat("lib")
	if err != nil || !info.IsDir() {
		t.Fatalf("lib should be a directory: %v", err)
	}

	var names []string
	if err := m.Walk("/", func(p string, d fs.DirEntry, err error) error {
		names = append(names, p)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "lib/util.leek" || names[1] != "main.leek" {
		t.Fatalf("walk order %v", names)
	}
}

func TestMemFS_Watch(t *testing.T) {
	m := NewMem()
	w := m.Watch()
	defer w.Close()
	if err := w.Add("src"); err != nil {
		t.Fatal(err)
	}

	m.WriteFile("other/a.leek", []byte("1"))
	m.WriteFile("src/a.leek", []byte("1"))
	m.WriteFile("src/a.leek", []byte("2"))
	if err := m.Remove("src/a.leek"); err != nil {
		t.Fatal(err)
	}

	want := []WatchOp{OpCreate, OpWrite, OpRemove}
	for _, op := range want {
		select {
		case ev := <-w.Events():
			if ev.Path != "src/a.leek" || ev.Op != op {
				t.Fatalf("got %v %s, want %s", ev.Path, ev.Op, op)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestWatchOp(t *testing.T) {
	if !OpWrite.Changed() || OpChmod.Changed() {
		t.Error("Changed mismatch")
	}
	if got := (OpCreate | OpWrite).String(); got != "create|write" {
		t.Errorf("String() = %q", got)
	}
	if !IsSource("a.leek") || !IsSource("ai") || IsSource("notes.txt") {
		t.Error("IsSource mismatch")
	}
}

func TestWatcher_FSNotify(t *testing.T) {
	fw, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()
	dir := t.TempDir()
	if err := fw.Add(dir); err != nil {
		t.Fatal(err)
	}
	go func() {
		f := filepath.Join(dir, "f.leek")
		_ = os.WriteFile(f, []byte("x"), 0o644)
	}()
	select {
	case ev := <-fw.Events():
		if ev.Path == "" {
			t.Fatal("empty path")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsnotify event")
	}
}
