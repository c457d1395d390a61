// Package transcript turns a session's raw event history and the in-flight
// streamed response into displayable chat turns: role normalization, the
// tool-call visibility filter, and terminal rendering.
package transcript

import "aetui/model"

// DisplayRole normalizes an event's role for display. The engine tags
// tool-response events with role "user" even though they are logically
// agent output, so any event whose first part is a function response
// displays as "ai", as does anything tagged "model". This compensation for
// the upstream tagging lives only here; remove it if the engine is fixed.
func DisplayRole(event model.Event) string {
	if event.Content.Role == "model" || event.FirstPart().FunctionResponse != nil {
		return "ai"
	}
	return event.Content.Role
}

// Suppressed reports whether an event is hidden entirely when tool calls
// are toggled off. Only the first part decides: an event leading with a
// function call or response is suppressed even if later parts carry text.
// The engine emits tool activity and prose as separate events, so whole
// events are the filtering unit.
func Suppressed(event model.Event, showToolCalls bool) bool {
	if showToolCalls {
		return false
	}
	first := event.FirstPart()
	return first.FunctionCall != nil || first.FunctionResponse != nil
}

// FromEvent builds the display turn for one streamed response event.
// Streamed events always render under the agent role; the engine does not
// echo the user's own message back on the stream.
func FromEvent(event model.Event) model.Turn {
	return model.Turn{
		Role:  "ai",
		Parts: event.Content.Parts,
	}
}

// UserTurn builds the locally echoed turn for a message the user typed.
func UserTurn(text string) model.Turn {
	return model.Turn{
		Role:  "user",
		Parts: []model.Part{{Text: text}},
	}
}

// ErrorTurn builds a visible error turn for a failed stream, so a broken
// response is never silently truncated.
func ErrorTurn(err error) model.Turn {
	return model.Turn{
		Role:  "error",
		Parts: []model.Part{{Text: err.Error()}},
	}
}

// BuildTurns converts a session's authoritative event history into display
// turns: suppressed events produce nothing, every other event maps to
// exactly one turn under its normalized role. Given the same events and
// flag it always yields the same turns.
func BuildTurns(events []model.Event, showToolCalls bool) []model.Turn {
	var turns []model.Turn
	for _, event := range events {
		if Suppressed(event, showToolCalls) {
			continue
		}
		turns = append(turns, model.Turn{
			Role:  DisplayRole(event),
			Parts: event.Content.Parts,
		})
	}
	return turns
}
