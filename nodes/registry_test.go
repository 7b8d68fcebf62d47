package nodes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNodeID(t *testing.T) {
	if got := NodeID("StylePromptEncoder"); got != "StylePromptEncoder //ZImagePowerNodes" {
		t.Errorf("NodeID() = %q", got)
	}
}

func TestNewRegistry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	r := NewRegistry(logger, DefaultMenu,
		NodeInfo{Class: "A", Title: "Node A"},
		NodeInfo{Class: "B", Title: "Node B", Deprecated: true},
		NodeInfo{Class: "A", Title: "Duplicate A"},
	)

	if len(r.Nodes()) != 2 {
		t.Fatalf("registered %d nodes, want 2", len(r.Nodes()))
	}

	a, ok := r.Lookup("A //ZImagePowerNodes")
	if !ok {
		t.Fatal("node A not registered")
	}
	if a.DisplayName != "Node A" || a.Menu != "⚡Z-Image" {
		t.Errorf("node A = %+v", a)
	}

	b, _ := r.Lookup("B //ZImagePowerNodes")
	if b.DisplayName != "❌Node B [Deprecated]" {
		t.Errorf("deprecated DisplayName = %q", b.DisplayName)
	}
	if b.Menu != "⚡Z-Image/__deprecated" {
		t.Errorf("deprecated Menu = %q", b.Menu)
	}

	if got := logs.FilterMessage("node already registered, skipping").Len(); got != 1 {
		t.Errorf("duplicate warnings = %d, want 1", got)
	}

	wantNames := map[string]string{
		"A //ZImagePowerNodes": "Node A",
		"B //ZImagePowerNodes": "❌Node B [Deprecated]",
	}
	if diff := cmp.Diff(wantNames, r.DisplayNames()); diff != "" {
		t.Errorf("DisplayNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultNodes_Registered(t *testing.T) {
	r := NewRegistry(nil, DefaultMenu, DefaultNodes()...)
	if len(r.IDs()) != len(DefaultNodes()) {
		t.Errorf("IDs() = %v", r.IDs())
	}
	for _, id := range r.IDs() {
		reg, _ := r.Lookup(id)
		if reg.Deprecated {
			t.Errorf("node %s unexpectedly deprecated", id)
		}
	}
}
