package dto

type FunctionCallingMode string

const (
	FunctionCallingModeAuto FunctionCallingMode = "auto"
	FunctionCallingModeNone FunctionCallingMode = "none"
)

type VertexGenerateRequest struct {
	Model           string
	System          string
	Contents        []VertexContent
	Tools           []VertexTool
	ToolConfig      *VertexToolConfig
	Temperature     *float32
	MaxOutputTokens *int32
}

type VertexGenerateResponse struct {
	Text      string
	ToolCalls []VertexToolCall
	Raw       any
}

// VertexContent is one turn of the conversation; Role is "user" or "model".
type VertexContent struct {
	Role  string
	Parts []VertexPart
}

// VertexPart carries exactly one of its fields.
type VertexPart struct {
	Text             *string
	FunctionCall     *VertexToolCall
	FunctionResponse *VertexToolResult
}

type VertexToolConfig struct {
	Mode FunctionCallingMode
}

type VertexTool struct {
	Name        string
	Description string
	Parameters  *VertexSchema
}

type VertexToolCall struct {
	Name string
	Args map[string]any
}

type VertexToolResult struct {
	Name     string
	Response map[string]any
}

type VertexSchema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*VertexSchema
	Required    []string
	Items       *VertexSchema
}
