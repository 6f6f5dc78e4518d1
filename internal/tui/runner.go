package tui

import "fmt"

// PromptContinue asks a yes/no question on stdout, defaulting to yes.
// Non-interactive runs always proceed: there is nobody to answer, and
// blocking a pipeline on a prompt would hang it.
func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}

	fmt.Printf("%s [Y/n]: ", message)

	var response string
	fmt.Scanln(&response)

	return response == "" || response == "y" || response == "Y"
}

// ProgressDisplay prints step progress in a form that reads well both at
// a terminal and in captured CI logs.
type ProgressDisplay struct{}

// NewProgressDisplay creates a progress display.
func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{}
}

// Start announces a step. The busy symbol is skipped for plain output so
// log lines stay grep-friendly.
func (p *ProgressDisplay) Start(message string) {
	if IsInteractive() {
		fmt.Printf("%s %s\n", SymbolBusy, message)
		return
	}
	fmt.Println(message)
}

// Success reports a finished step.
func (p *ProgressDisplay) Success(message string) {
	fmt.Printf("%s %s\n", SymbolCheck, message)
}

// Error reports a failed step.
func (p *ProgressDisplay) Error(message string) {
	fmt.Printf("%s %s\n", SymbolCross, message)
}
