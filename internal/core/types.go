package core

// Schema type strings accepted by the model's function-declaration format.
const (
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
	TypeArray   = "ARRAY"
	TypeObject  = "OBJECT"
)

// FinishReasonMalformedFunctionCall marks a response the model could not
// finish because it emitted an unparseable function call.
const FinishReasonMalformedFunctionCall = "MALFORMED_FUNCTION_CALL"

// FunctionCall is a single tool invocation requested by the model.
type FunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// FunctionResponse carries one tool result back to the model.
type FunctionResponse struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

// Part is one piece of message content: text, a function call, or a
// function response. Exactly one field is set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// Content is a turn of conversation content attributed to a role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Schema describes a parameter (or the parameter object) in a function
// declaration. Property schemas are one level deep: nested object/array
// element schemas are not carried.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// FunctionDeclaration describes one callable tool in the model's format.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Candidate is one generated answer in a model response.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateResponse is a single model response. Candidates carry the raw
// content parts; Text and FunctionCalls are the structured accessors.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the concatenated text parts of the first candidate. It
// returns an error when the response carries no candidate content, so
// callers can treat a blocked or empty response as "no text".
func (r *GenerateResponse) Text() (string, error) {
	if r == nil || len(r.Candidates) == 0 {
		return "", ErrNoContent
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	if out == "" {
		return "", ErrNoContent
	}
	return out, nil
}

// FunctionCalls returns the function calls of the first candidate. It can
// come back empty even when later candidates or malformed parts carry
// calls; callers that need those scan Candidates directly.
func (r *GenerateResponse) FunctionCalls() []FunctionCall {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	var calls []FunctionCall
	for _, p := range r.Candidates[0].Content.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, *p.FunctionCall)
		}
	}
	return calls
}

// FinishReason returns the first candidate's finish reason, or "".
func (r *GenerateResponse) FinishReason() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

// PropertySchema is one declared parameter in a tool server's input schema.
type PropertySchema struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the tool server's declared parameter schema for one tool.
type InputSchema struct {
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// ToolInfo is one capability advertised by the tool server.
type ToolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ToolContent is one content segment of a tool result.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolCallResult is the ordered content returned by a tool invocation.
type ToolCallResult struct {
	Content []ToolContent `json:"content"`
}
