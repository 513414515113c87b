package summary

// Request is the prompt sent to the inference backend
type Request struct {
	prompt string
}

// Prompt returns the full prompt text
func (r Request) Prompt() string {
	return r.prompt
}

const promptTemplate = "Analyze the transcript below and provide a structured meeting summary with the following sections:\n\n" +
	"1. **Context**: Provide a brief description of the purpose and participants of the meeting.\n" +
	"2. **Key Points**: Summarize the main topics and discussion points covered during the meeting.\n" +
	"3. **Action Items**: List any tasks assigned to participants.\n" +
	"4. **Next Steps**: Describe planned follow-ups or meetings.\n" +
	"5. **Conclusion**: Summarize the overall status and outcome of the meeting.\n\n" +
	"Transcript:\n\n"

// BuildRequest embeds the transcript into the fixed summary template.
// The transcript is not trimmed or length-checked; an empty one is embedded as is.
func BuildRequest(transcript string) Request {
	return Request{prompt: promptTemplate + transcript}
}
