package messages

// Prompt messages.
const (
	PromptRequiresTerminal = "confirmation requires an interactive terminal; pass the answer as a wizard argument"
	PromptAborted          = "confirmation aborted"
	PromptYes              = "Yes"
	PromptNo               = "No"
)
