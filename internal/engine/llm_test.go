package engine

import (
	"context"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"sentiment":"positive"}`, `{"sentiment":"positive"}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCallLLMNoClient(t *testing.T) {
	Init(Config{})
	if _, err := CallLLM(context.Background(), "hello"); err == nil {
		t.Error("expected error without a configured client")
	}
	if LLMEnabled() {
		t.Error("LLMEnabled should be false without a client")
	}
}

func TestLabelCommentsNoTexts(t *testing.T) {
	if _, err := LabelComments(context.Background(), "Some video", nil); err == nil {
		t.Error("expected error for empty comment set")
	}
}
