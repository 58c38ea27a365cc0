package task

// Log formatting.

import "github.com/fatih/color"

const (
	SpawnSymbol = "┿ "
	ExitSymbol  = "└ "
	PanicSymbol = " ◹ "
)

var (
	fmtTask  = color.New(color.FgMagenta, color.Bold).SprintFunc()
	fmtPanic = color.New(color.FgHiRed, color.Bold).SprintFunc()
)
