package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" toml:"name"`
	Count int    `json:"count" toml:"count"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{Name: "a", Count: 2}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"name\":\"a\",\"count\":2}\n" {
		t.Fatalf("unexpected json %q", got)
	}

	buf.Reset()
	if err := Write(&buf, sample{Name: "a"}, "json", true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"name\": \"a\"") {
		t.Fatalf("expected indented json, got %q", buf.String())
	}
}

func TestWrite_TOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{Name: "a", Count: 2}, "toml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "name = \"a\"") || !strings.Contains(got, "count = 2") {
		t.Fatalf("unexpected toml %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sample{}, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}
