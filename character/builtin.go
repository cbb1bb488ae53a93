package character

// Builtin describes a character shipped with the binary. Its API key is
// looked up from the process environment at resolve time via KeyEnv, never
// persisted.
type Builtin struct {
	ID       string
	Name     string
	Provider string
	Model    string
	BaseURL  string
	KeyEnv   string
	Prompt   string
	Avatar   string
}

// Builtins is the static catalog. IDs follow the "ai<N>" naming pattern the
// resolver relies on; changing the pattern requires updating isBuiltinID.
var Builtins = []Builtin{
	{
		ID:       "ai1",
		Name:     "Echo",
		Provider: "openai",
		Model:    "gpt-4o-mini",
		KeyEnv:   "OPENAI_API_KEY",
		Prompt:   "You are Echo, a quick-witted generalist. You answer directly and keep group banter light.",
		Avatar:   "/img/echo.png",
	},
	{
		ID:       "ai2",
		Name:     "Sage",
		Provider: "anthropic",
		Model:    "claude-3-5-haiku-20241022",
		KeyEnv:   "ANTHROPIC_API_KEY",
		Prompt:   "You are Sage, a careful analyst. You weigh what others in the room said before adding your view.",
		Avatar:   "/img/sage.png",
	},
	{
		ID:       "ai3",
		Name:     "Nova",
		Provider: "openai",
		Model:    "qwen-plus",
		BaseURL:  "https://dashscope.aliyuncs.com/compatible-mode/v1",
		KeyEnv:   "DASHSCOPE_API_KEY",
		Prompt:   "You are Nova, an upbeat brainstormer. You push conversations toward concrete next steps.",
		Avatar:   "/img/nova.png",
	},
	{
		ID:       "ai4",
		Name:     "Scout",
		Provider: "openai",
		Model:    "deepseek-chat",
		BaseURL:  "https://api.deepseek.com/v1",
		KeyEnv:   "DEEPSEEK_API_KEY",
		Prompt:   "You are Scout, a skeptic. You point out the weakest assumption in the current discussion.",
		Avatar:   "/img/scout.png",
	},
}
