package workflow

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a configured transition may be taken
type GuardFunc func(ctx context.Context) bool

// Builder assembles a state machine configuration edge by edge
type Builder interface {
	// Configure returns the configuration for the given source state,
	// creating it on first use
	Configure(state State) StateConfiguration

	// Build creates an independent machine instance starting at initialState
	Build(initialState State) StateMachine
}

// StateConfiguration registers outbound transitions for one source state
type StateConfiguration interface {
	// Permit allows the trigger to transition to the target state
	Permit(trigger Trigger, to State) StateConfiguration

	// PermitIf allows the trigger to transition to the target state when the
	// guard passes
	PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfiguration
}

type edge struct {
	to    State
	guard GuardFunc
}

type stateConfig struct {
	edges map[Trigger][]edge
}

type builder struct {
	states map[State]*stateConfig
}

// NewBuilder creates an empty state machine builder
func NewBuilder() Builder {
	return &builder{states: make(map[State]*stateConfig)}
}

func (b *builder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("configure: unknown state %q", state))
	}
	cfg, ok := b.states[state]
	if !ok {
		cfg = &stateConfig{edges: make(map[Trigger][]edge)}
		b.states[state] = cfg
	}
	return cfg
}

func (b *builder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("build: unknown initial state %q", initialState))
	}

	// Copy the edge table so later Configure calls cannot mutate a machine
	// that is already in use.
	states := make(map[State]*stateConfig, len(b.states))
	for s, cfg := range b.states {
		edges := make(map[Trigger][]edge, len(cfg.edges))
		for t, es := range cfg.edges {
			edges[t] = append([]edge(nil), es...)
		}
		states[s] = &stateConfig{edges: edges}
	}

	return &machine{current: initialState, states: states}
}

func (c *stateConfig) Permit(trigger Trigger, to State) StateConfiguration {
	return c.PermitIf(trigger, to, nil)
}

func (c *stateConfig) PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("permit: unknown target state %q", to))
	}
	c.edges[trigger] = append(c.edges[trigger], edge{to: to, guard: guard})
	return c
}

type machine struct {
	current State
	states  map[State]*stateConfig
}

func (m *machine) State() State {
	return m.current
}

func (m *machine) CanFire(trigger Trigger) bool {
	cfg, ok := m.states[m.current]
	if !ok {
		return false
	}
	return len(cfg.edges[trigger]) > 0
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	cfg, ok := m.states[m.current]
	if !ok {
		return fmt.Errorf("%w: trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}

	edges := cfg.edges[trigger]
	if len(edges) == 0 {
		return fmt.Errorf("%w: trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}

	// First edge whose guard passes wins; nil guard always passes.
	for _, e := range edges {
		if e.guard == nil || e.guard(ctx) {
			m.current = e.to
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.current)
}

func (m *machine) PermittedTriggers() []Trigger {
	cfg, ok := m.states[m.current]
	if !ok {
		return nil
	}
	triggers := make([]Trigger, 0, len(cfg.edges))
	for t := range cfg.edges {
		triggers = append(triggers, t)
	}
	return triggers
}
