package gate

import "github.com/byStayo/AI-Computer-Controller/internal/domain"

// Gate is the risk policy consulted before any command reaches the executor.
// YOLO always permits. SAFE defers to an installable policy hook; with no
// hook installed SAFE stays annotation-only and permits, matching the default
// single-user setup where confirmation happens on the phone.
type Gate struct {
	// SafePolicy decides SAFE-mode commands. Return false to deny; denials
	// surface to the client as an error reply, never a silent drop.
	SafePolicy func(commandText string) bool
}

func (g *Gate) Permits(mode domain.Mode, commandText string) bool {
	if mode != domain.ModeSafe {
		return true
	}
	if g == nil || g.SafePolicy == nil {
		return true
	}
	return g.SafePolicy(commandText)
}
