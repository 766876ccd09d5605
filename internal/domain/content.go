package domain

import (
	"encoding/json"
	"strings"
)

// ContentPart is one element of a multipart content array. Only Type "text"
// is meaningful to the core; any other value fails validation.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ContentPartTypeText is the sole content part kind the core understands.
const ContentPartTypeText = "text"

// Content is a polymorphic field inhabited by either a plain string or an
// ordered array of typed parts. It round-trips: a string-form Content,
// normalized to parts and flattened back, yields the original string.
type Content struct {
	text    string
	parts   []ContentPart
	isParts bool
}

// NewTextContent builds a string-form Content.
func NewTextContent(text string) Content {
	return Content{text: text}
}

// NewPartsContent builds a parts-form Content.
func NewPartsContent(parts []ContentPart) Content {
	return Content{parts: parts, isParts: true}
}

// IsZero reports whether the content is absent or a string-form empty
// string.
func (c Content) IsZero() bool {
	return !c.isParts && c.text == "" && c.parts == nil
}

// Parts returns the normalized parts form, converting a string-form Content
// into a single text part.
func (c Content) Parts() []ContentPart {
	if c.isParts {
		return c.parts
	}
	if c.text == "" {
		return nil
	}
	return []ContentPart{{Type: ContentPartTypeText, Text: c.text}}
}

// Flatten joins the text of every part with a single space (the fixed
// space-join policy). For string-form Content this returns the original
// string unchanged.
func (c Content) Flatten() string {
	if !c.isParts {
		return c.text
	}
	texts := make([]string, 0, len(c.parts))
	for _, p := range c.parts {
		if p.Type == ContentPartTypeText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}

// Validate rejects any part whose Type is not "text" or whose Text is empty.
func (c Content) Validate() error {
	if !c.isParts {
		return nil
	}
	for _, p := range c.parts {
		if p.Type != ContentPartTypeText {
			return ErrInvalidParameter("messages", "unsupported content part kind: "+p.Type)
		}
		if p.Text == "" {
			return ErrInvalidParameter("messages", "empty text in content part")
		}
	}
	return nil
}

// MarshalJSON emits the string form when the content was built from a
// string, and the parts array otherwise.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.isParts {
		return json.Marshal(c.parts)
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON accepts both a JSON string and an array of ContentPart.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = s
		c.parts = nil
		c.isParts = false
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	c.parts = parts
	c.text = ""
	c.isParts = true
	return nil
}
