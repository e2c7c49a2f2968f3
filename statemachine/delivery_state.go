package statemachine

import (
	"errors"

	"github.com/Bips27/tiffinly-daily-bites/models"
)

// Transition defines a valid delivery-status change and who can perform it
type Transition struct {
	From  models.DeliveryStatus
	To    models.DeliveryStatus
	Actor string // "kitchen", "courier", "system"
}

// validTransitions is the authoritative state machine definition. Delivery
// status only ever moves forward — there is no cancel edge because a
// subscription slot is prepaid and cannot be abandoned mid-flight.
var validTransitions = []Transition{
	// Kitchen starts cooking the slot
	{From: models.StatusScheduled, To: models.StatusPreparing, Actor: "kitchen"},
	// Kitchen hands off or courier picks up
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: "kitchen"},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: "courier"},
	// Courier completes the delivery
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: "courier"},
	// External tracking feed may drive any forward step
	{From: models.StatusScheduled, To: models.StatusPreparing, Actor: "system"},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: "system"},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: "system"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.DeliveryStatus
	To    models.DeliveryStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next statuses from a given status
func ValidTransitionsFrom(status models.DeliveryStatus) []models.DeliveryStatus {
	var nexts []models.DeliveryStatus
	seen := map[models.DeliveryStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move a meal from one delivery
// status to another
func CanTransition(from, to models.DeliveryStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.DeliveryStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
