// Package scheduling defines the appointment domain: entities, availability
// values, the duration and business-hours tables, and the repository and
// service contracts the agent swarm books against.
package scheduling
