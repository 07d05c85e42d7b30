package statemachine

import (
	"fmt"
	"strings"

	"fooddelight/models"
)

// Actor is who requests a status change
type Actor string

const (
	ActorPartner Actor = "partner"
	ActorAdmin   Actor = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Partner picks the order up and delivers it
	{From: models.StatusPlaced, To: models.StatusOutForDelivery, Actor: ActorPartner},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorPartner},
	// Admin can drive the whole lifecycle
	{From: models.StatusPlaced, To: models.StatusOutForDelivery, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorAdmin},
	// Only admin cancels, and only before delivery
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError reports a status change that the state machine rejects.
type TransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s is not allowed for %s; valid transitions from %s: %s",
		e.From, e.To, e.Actor, e.From, describeValidFrom(e.From))
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
