package statemachine

import (
	"errors"
)

// SessionState is the authentication state of one browser session.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// Event moves a session between states.
type Event string

const (
	EventLogin  Event = "login"
	EventLogout Event = "logout"
)

// Transition defines a valid state change and the event that causes it
type Transition struct {
	From  SessionState
	Event Event
	To    SessionState
}

// validTransitions is the authoritative session lifecycle
var validTransitions = []Transition{
	{From: StateAnonymous, Event: EventLogin, To: StateAuthenticated},
	// Logging in again rebinds the session to the new user
	{From: StateAuthenticated, Event: EventLogin, To: StateAuthenticated},
	{From: StateAuthenticated, Event: EventLogout, To: StateAnonymous},
	// Logout is idempotent
	{From: StateAnonymous, Event: EventLogout, To: StateAnonymous},
}

type transitionKey struct {
	From  SessionState
	Event Event
}

var transitionMap = func() map[transitionKey]SessionState {
	m := make(map[transitionKey]SessionState)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.Event}] = t.To
	}
	return m
}()

// StateOf maps the presence of a principal to a session state.
func StateOf(authenticated bool) SessionState {
	if authenticated {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Next returns the state reached from `from` on event.
func Next(from SessionState, event Event) (SessionState, error) {
	if to, ok := transitionMap[transitionKey{From: from, Event: event}]; ok {
		return to, nil
	}
	return "", errors.New(
		"invalid session transition: event '" + string(event) +
			"' is not allowed from state " + string(from),
	)
}

// GetAllTransitions returns the full lifecycle for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
