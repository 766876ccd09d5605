package domain

import (
	"encoding/json"
	"testing"
)

func TestContentStringRoundTrip(t *testing.T) {
	original := "hello there"
	data, err := json.Marshal(NewTextContent(original))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := c.Flatten(); got != original {
		t.Fatalf("Flatten() = %q, want %q", got, original)
	}
}

func TestContentPartsArraySpaceJoin(t *testing.T) {
	raw := `[{"type":"text","text":"A"},{"type":"text","text":"B"}]`

	var c Content
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got, want := c.Flatten(), "A B"; got != want {
		t.Fatalf("Flatten() = %q, want %q", got, want)
	}
}

func TestContentValidateRejectsUnknownPartKind(t *testing.T) {
	c := NewPartsContent([]ContentPart{{Type: "image_url", Text: ""}})
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for non-text part kind")
	}
}

func TestContentValidateRejectsEmptyText(t *testing.T) {
	c := NewPartsContent([]ContentPart{{Type: ContentPartTypeText, Text: ""}})
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for empty text part")
	}
}

func TestContentMarshalStringForm(t *testing.T) {
	data, err := json.Marshal(NewTextContent("hi"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"hi"` {
		t.Fatalf("marshal = %s, want \"hi\"", data)
	}
}
