// Package agents defines the domain model for the agent swarm: trigger
// events, interaction state, agent run contracts and the tiered chat model
// interface agents use to reason.
//
// Agents never receive or emit PHI. Patients are referenced exclusively by
// opaque reference tokens; resolution to identifying data happens in the
// scheduling and delivery layers.
package agents
