// Package diag renders pipeline diagnostics on the console.
package diag

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/neworderofjamie/mini-parse/pkg/minic"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	infoColorFG  = pterm.FgLightGreen
)

// ConsoleHandler reports diagnostics to the terminal as they arrive and
// counts them so the driver can gate the next pipeline stage.
type ConsoleHandler struct {
	stage      string
	errorCount int
}

// NewConsoleHandler creates a handler labelling its output with the given
// pipeline stage name.
func NewConsoleHandler(stage string) *ConsoleHandler {
	return &ConsoleHandler{stage: stage}
}

// SetStage relabels subsequent diagnostics, keeping the error count.
func (h *ConsoleHandler) SetStage(stage string) {
	h.stage = stage
}

func (h *ConsoleHandler) Error(line int, message string) {
	h.report(line, "", message)
}

func (h *ConsoleHandler) ErrorAt(token minic.Token, message string) {
	if token.Type == minic.END_OF_FILE {
		h.report(token.Line, " at end", message)
	} else {
		h.report(token.Line, fmt.Sprintf(" at '%s'", token.Lexeme), message)
	}
}

func (h *ConsoleHandler) HasError() bool { return h.errorCount > 0 }

// ErrorCount returns the number of diagnostics received so far.
func (h *ConsoleHandler) ErrorCount() int { return h.errorCount }

// ShouldProceed indicates whether the next pipeline stage may run.
func (h *ConsoleHandler) ShouldProceed() bool { return h.errorCount == 0 }

func (h *ConsoleHandler) report(line int, where, message string) {
	h.errorCount++
	errorStyleBG.Print(h.stage + " Error")
	errorColorFG.Printf(" [line %d]%s: %s\n", line, where, message)
}

// PrintHeader displays the tool banner before a run starts.
func PrintHeader(version, source string) {
	fmt.Print("mini-parse ")
	infoColorFG.Print("v" + version)
	fmt.Print(" -- ")
	infoColorFG.Println(source)
}

// PrintRuntimeError displays a fault raised by the interpreter.
func PrintRuntimeError(err error) {
	errorStyleBG.Print("Runtime Error")
	errorColorFG.Println(" " + err.Error())
}

// PrintFinished displays the closing success/failure message.
func PrintFinished(success bool, errorCount int) {
	fmt.Println()
	if success {
		infoColorFG.Print("All done! ")
	} else {
		errorColorFG.Print("Oh no! ")
	}
	switch errorCount {
	case 1:
		fmt.Println("(1 error)")
	default:
		fmt.Printf("(%d errors)\n", errorCount)
	}
}
