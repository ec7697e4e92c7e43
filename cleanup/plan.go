package cleanup

import (
	"fmt"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/identity"
	"github.com/jozzer182/Yuva/resource"
)

// Plan is the fixed execution order of a deletion run.
type Plan struct {
	steps   []Step
	removal *RemovalStep
}

// NewPlan creates a plan running steps in the given order, then removal.
func NewPlan(removal *RemovalStep, steps ...Step) (*Plan, error) {
	if removal == nil {
		return nil, yuva.ErrEmptyPlan
	}
	seen := map[string]struct{}{RemovalStepName: {}}
	for _, s := range steps {
		if _, dup := seen[s.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", yuva.ErrDuplicateStep, s.Name())
		}
		seen[s.Name()] = struct{}{}
	}
	return &Plan{
		steps:   append([]Step(nil), steps...),
		removal: removal,
	}, nil
}

// Steps returns the tolerated steps in execution order.
func (p *Plan) Steps() []Step { return append([]Step(nil), p.steps...) }

// Removal returns the terminal step.
func (p *Plan) Removal() *RemovalStep { return p.removal }

// Len returns the number of steps including the removal step.
func (p *Plan) Len() int { return len(p.steps) + 1 }

// Target pairs a collection with the progress message shown while it is
// cleaned.
type Target struct {
	Collection resource.Collection `json:"collection"`
	Progress   string              `json:"progress"`
}

// RemovalProgress is the default message shown during identity removal.
const RemovalProgress = "Eliminando cuenta de autenticación..."

// DefaultCollections returns the collections of the marketplace data model in
// deletion order: the profile (keyed by subject), jobs and conversations
// (owned via clientId) and notifications (owned via userId).
func DefaultCollections() []Target {
	return []Target{
		{Collection: resource.Collection{Name: "users", OwnerField: resource.DocumentKey}, Progress: "Eliminando perfil de usuario..."},
		{Collection: resource.Collection{Name: "jobs", OwnerField: "clientId"}, Progress: "Eliminando trabajos publicados..."},
		{Collection: resource.Collection{Name: "conversations", OwnerField: "clientId"}, Progress: "Eliminando conversaciones..."},
		{Collection: resource.Collection{Name: "notifications", OwnerField: "userId"}, Progress: "Eliminando notificaciones..."},
	}
}

// Build creates a plan of collection steps over store for the given
// targets, terminated by identity removal through provider.
func Build(store resource.Store, provider identity.Provider, targets []Target, opts ...StepOption) (*Plan, error) {
	steps := make([]Step, 0, len(targets))
	for _, t := range targets {
		if err := t.Collection.Validate(); err != nil {
			return nil, err
		}
		steps = append(steps, NewCollectionStep(store, t.Collection, t.Progress, opts...))
	}
	return NewPlan(NewRemovalStep(provider, RemovalProgress), steps...)
}
