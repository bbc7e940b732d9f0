package vertexclient

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/coop-backend/internal/dto"
)

func TestToGenaiContents(t *testing.T) {
	text := "how many members are active?"
	contents := toGenaiContents([]dto.VertexContent{
		{Role: "user", Parts: []dto.VertexPart{{Text: &text}}},
		{Role: "model", Parts: []dto.VertexPart{{FunctionCall: &dto.VertexToolCall{Name: "get_coop_summary"}}}},
		{Role: "user", Parts: []dto.VertexPart{{FunctionResponse: &dto.VertexToolResult{
			Name:     "get_coop_summary",
			Response: map[string]any{"active": 12},
		}}}},
	})

	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if got, ok := contents[0].Parts[0].(genai.Text); !ok || string(got) != text {
		t.Fatalf("unexpected text part: %#v", contents[0].Parts[0])
	}
	if got, ok := contents[1].Parts[0].(genai.FunctionCall); !ok || got.Name != "get_coop_summary" {
		t.Fatalf("unexpected function call part: %#v", contents[1].Parts[0])
	}
	if got, ok := contents[2].Parts[0].(genai.FunctionResponse); !ok || got.Response["active"] != 12 {
		t.Fatalf("unexpected function response part: %#v", contents[2].Parts[0])
	}
}

func TestParseContentResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Funds are "),
				genai.Text("healthy."),
				genai.FunctionCall{Name: "get_overdue_loans", Args: map[string]any{"limit": 5.0}},
			}},
		}},
	}

	text, calls := parseContentResponse(resp)
	if text != "Funds are healthy." {
		t.Fatalf("unexpected text %q", text)
	}
	if len(calls) != 1 || calls[0].Name != "get_overdue_loans" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestToGenaiToolConfig(t *testing.T) {
	cfg := toGenaiToolConfig(&dto.VertexToolConfig{Mode: dto.FunctionCallingModeNone})
	if cfg.FunctionCallingConfig.Mode != genai.FunctionCallingNone {
		t.Fatalf("expected none mode, got %v", cfg.FunctionCallingConfig.Mode)
	}
	cfg = toGenaiToolConfig(&dto.VertexToolConfig{})
	if cfg.FunctionCallingConfig.Mode != genai.FunctionCallingAuto {
		t.Fatalf("expected auto mode, got %v", cfg.FunctionCallingConfig.Mode)
	}
}

func TestToGenaiSchema(t *testing.T) {
	schema := toGenaiSchema(&dto.VertexSchema{
		Type:     "object",
		Required: []string{"memberId"},
		Properties: map[string]*dto.VertexSchema{
			"memberId": {Type: "string"},
			"limit":    {Type: "integer"},
		},
	})

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected object type")
	}
	if schema.Properties["limit"].Type != genai.TypeInteger {
		t.Fatalf("expected integer limit")
	}
	if toGenaiSchema(nil) != nil {
		t.Fatalf("expected nil schema")
	}
}
