package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := NewMem()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	userID := node.Generate()

	name, err := store.Save("golf 1.9 tdi.bin", userID, strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if !strings.Contains(name, userID.String()) {
		t.Fatalf("expected stored name to embed user id, got %s", name)
	}
	if !strings.HasSuffix(name, "golf_1.9_tdi.bin") {
		t.Fatalf("expected sanitized original name suffix, got %s", name)
	}

	blob, err := store.Open(name)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer blob.Close()
	data, err := io.ReadAll(blob)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	store := NewMem()
	node, _ := snowflake.NewNode(1)
	userID := node.Generate()

	first, err := store.Save("map.bin", userID, strings.NewReader("a"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	second, err := store.Save("map.bin", userID, strings.NewReader("b"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct stored names, got %s twice", first)
	}
}

func TestSaveResultPrefix(t *testing.T) {
	store := NewMem()
	node, _ := snowflake.NewNode(1)

	name, err := store.SaveResult("map.bin", node.Generate(), strings.NewReader("tuned"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if !strings.HasPrefix(name, ResultPrefix) {
		t.Fatalf("expected %s prefix, got %s", ResultPrefix, name)
	}
}
