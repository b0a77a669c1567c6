package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

func TestWriteJSON(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, []row{{ID: "home"}}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := b.String(); got != "[{\"id\":\"home\"}]\n" {
		t.Fatalf("unexpected json %q", got)
	}
}

func TestWriteYAMLUsesJSONNames(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, row{ID: "msg-1", Status: "sent"}, "yaml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "id: msg-1") || !strings.Contains(got, "status: sent") {
		t.Fatalf("unexpected yaml %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}
