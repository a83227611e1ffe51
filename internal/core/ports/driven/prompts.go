package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswer instructs the model to answer only from the supplied context.
	// The template uses {{query}} and {{context}} placeholders.
	PromptAnswer = "answer"

	// PromptHealthProbe is the trivial prompt sent by health checks.
	PromptHealthProbe = "health_probe"
)

// Built-in prompt templates, used when no user file overrides them.
const (
	DefaultAnswerPrompt = `You are a helpful assistant that answers only using verified data from the provided business dataset.

Question: {{query}}

Context:
{{context}}

Respond with factual, concise information in conversational form. Include only information that is directly supported by the context.`

	DefaultHealthProbePrompt = "Hello"
)
