package model

import (
	"encoding/json"
	"strconv"
)

// Event is one turn of a session's conversation as the agent engine
// returns it. Only the content envelope is interpreted client-side;
// everything else the engine attaches is ignored.
type Event struct {
	Content Content `json:"content"`
}

type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is the smallest unit of event content: text, a function call, or a
// function response. In practice exactly one variant is populated; a part
// with none of the three is kept as an empty entry rather than rejected.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// The engine emits parts with snake_case keys on the streaming path and
// camelCase keys in stored session history. Accept both.
func (p *Part) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text                  string            `json:"text"`
		FunctionCall          *FunctionCall     `json:"function_call"`
		FunctionCallCamel     *FunctionCall     `json:"functionCall"`
		FunctionResponse      *FunctionResponse `json:"function_response"`
		FunctionResponseCamel *FunctionResponse `json:"functionResponse"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Text = raw.Text
	p.FunctionCall = raw.FunctionCall
	if p.FunctionCall == nil {
		p.FunctionCall = raw.FunctionCallCamel
	}
	p.FunctionResponse = raw.FunctionResponse
	if p.FunctionResponse == nil {
		p.FunctionResponse = raw.FunctionResponseCamel
	}
	return nil
}

func (p Part) MarshalJSON() ([]byte, error) {
	raw := struct {
		Text             string            `json:"text,omitempty"`
		FunctionCall     *FunctionCall     `json:"function_call,omitempty"`
		FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
	}{
		Text:             p.Text,
		FunctionCall:     p.FunctionCall,
		FunctionResponse: p.FunctionResponse,
	}
	return json.Marshal(raw)
}

// IsEmpty reports whether no variant is populated.
func (p Part) IsEmpty() bool {
	return p.Text == "" && p.FunctionCall == nil && p.FunctionResponse == nil
}

// FirstPart returns the event's first part, or an empty part if the event
// has none.
func (e Event) FirstPart() Part {
	if len(e.Content.Parts) == 0 {
		return Part{}
	}
	return e.Content.Parts[0]
}

// EpochString is the engine's string-encoded epoch-seconds timestamp.
// Some responses encode it as a bare JSON number instead; both decode.
type EpochString string

func (e *EpochString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = EpochString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = EpochString(n.String())
	return nil
}

// Seconds converts the timestamp to epoch seconds. Unparseable values sort
// as zero rather than failing a render.
func (e EpochString) Seconds() float64 {
	f, err := strconv.ParseFloat(string(e), 64)
	if err != nil {
		return 0
	}
	return f
}
