package trace

// Log formatting.

import (
	"fmt"

	"github.com/fatih/color"
)

const (
	ChanSymbol  = "ν "
	SpawnSymbol = "┿ "
	SendSymbol  = "❗ "
	RecvSymbol  = "❓ "
	ExitSymbol  = "└ "
)

var (
	fmtChan  = color.New(color.FgRed, color.Bold).SprintFunc()
	fmtRecv  = color.New(color.FgHiBlue).SprintFunc()
	fmtSend  = color.New(color.FgCyan).SprintFunc()
	fmtSpawn = color.New(color.FgMagenta, color.Bold).SprintFunc()
	fmtExit  = color.New(color.Italic).SprintFunc()
)

// format renders e for the log.
func format(e Event) string {
	switch e.Kind {
	case NewChan:
		return fmt.Sprintf("%s%s = %s", ChanSymbol, fmtChan(e.Chan), e.Task)
	case Spawn:
		return fmt.Sprintf("%s%s → %s", SpawnSymbol, e.Task, fmtSpawn(e.Peer))
	case Send:
		return fmt.Sprintf("%s%s %s ← %s", SendSymbol, e.Task, fmtSend(e.Chan), e.Value)
	case Recv:
		return fmt.Sprintf("%s%s %s → %s", RecvSymbol, e.Task, fmtRecv(e.Chan), e.Value)
	case Exit:
		return fmt.Sprintf("%s%s", ExitSymbol, fmtExit(e.String()))
	}
	return e.String()
}
