package tui

type SetupSubmitMsg struct {
	DocsDir string
	BaseURL string
}

type SetupErrorMsg struct {
	Error string
}

type debounceMsg struct {
	seq int
}
