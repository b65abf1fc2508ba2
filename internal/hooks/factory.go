package hooks

import (
	"github.com/jask/playerhooks/internal/player"
	"github.com/jask/playerhooks/internal/registry"
)

// DeclarationContext is what CreateHook hands to a hook declaration.
type DeclarationContext struct {
	GetQueue  func(node player.NodeResolvable) (player.Queue, bool)
	GetPlayer func() (player.Instance, bool)
	Instances *registry.Registry[player.Instance]
}

// CreateHook calls decl once with h's capabilities and returns what it
// builds. Panics from decl are not recovered.
func CreateHook[F any](h *Hooks, decl func(DeclarationContext) F) F {
	return decl(DeclarationContext{
		GetQueue:  h.GetQueue,
		GetPlayer: h.GetPlayer,
		Instances: h.Instances,
	})
}
