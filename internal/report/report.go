// Package report collects human-readable notes about instrumentation
// decisions and prints them to the console at the end of a run.
package report

import (
	"log"
	"strings"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

const (
	InfoHeader string = "LM INFO"
	WarnHeader string = "LM WARN"
)

type ConsolePrinter struct {
	notes []string
}

// initialize this if you want to use it at the start of the program
var printer *ConsolePrinter

func EnableConsolePrinter() {
	printer = &ConsolePrinter{}
}

func WriteAll() {
	if printer != nil {
		printer.Flush()
	}
}

// Info records an informational note about a node.
// The message is the main note, and additionalInfo is a list of optional
// lines printed below it.
func Info(loc ast.Loc, message string, additionalInfo ...string) {
	printer.Add(loc, InfoHeader, message, additionalInfo...)
}

// Warn records a warning note about a node.
func Warn(loc ast.Loc, message string, additionalInfo ...string) {
	printer.Add(loc, WarnHeader, message, additionalInfo...)
}

// Add appends a new note to the printer.
func (p *ConsolePrinter) Add(loc ast.Loc, header, message string, additionalInfo ...string) {
	if p == nil {
		return
	}

	b := strings.Builder{}
	b.WriteString(header)
	b.WriteByte(':')
	b.WriteByte(' ')

	if pos := loc.String(); pos != "" {
		b.WriteString(pos)
		b.WriteByte(' ')
	}
	b.WriteString(message)
	for _, info := range additionalInfo {
		b.WriteString("\n")
		b.WriteString(info)
	}

	p.notes = append(p.notes, b.String())
}

// Flush logs all collected notes and clears the printer.
func (p *ConsolePrinter) Flush() {
	if p == nil {
		return
	}

	for _, n := range p.notes {
		log.Println(n)
	}
	p.notes = []string{}
}
