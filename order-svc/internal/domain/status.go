package domain

import "strings"

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// transitions is the fulfillment graph. Terminal states map to nothing.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      nil,
	StatusCancelled:      nil,
}

func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionPolicy decides whether a status change is allowed.
type TransitionPolicy string

const (
	// PolicyStrict enforces the fulfillment graph.
	PolicyStrict TransitionPolicy = "strict"
	// PolicyPermissive accepts any known status from any state, which lets an
	// operator correct a mistaken update by hand.
	PolicyPermissive TransitionPolicy = "permissive"
)

func ParsePolicy(s string) TransitionPolicy {
	if TransitionPolicy(strings.ToLower(strings.TrimSpace(s))) == PolicyPermissive {
		return PolicyPermissive
	}
	return PolicyStrict
}

func (p TransitionPolicy) Allows(from, to Status) bool {
	if p == PolicyPermissive {
		return true
	}
	return from.CanTransitionTo(to)
}
