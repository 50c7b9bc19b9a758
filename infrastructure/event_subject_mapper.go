package infrastructure

import (
	"fmt"

	"rewards/events"
)

// StreamName is the JetStream stream holding every forwarded event
const StreamName = "rewards_events"

var subjects = map[events.EventType]string{
	events.EventTypeBalanceChange:           "rewards.balances.changed",
	events.EventTypeAccountCreated:          "rewards.accounts.created",
	events.EventTypeWithdrawalRequested:     "rewards.withdrawals.requested",
	events.EventTypeWithdrawalStatusChanged: "rewards.withdrawals.status_changed",
	events.EventTypeWithdrawalCompleted:     "rewards.withdrawals.completed",
}

// SubjectFor converts an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	if subject, ok := subjects[eventType]; ok {
		return subject
	}
	return fmt.Sprintf("rewards.unknown.%s", eventType)
}

// ForwardedEventTypes lists the event types published to NATS
func ForwardedEventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeBalanceChange,
		events.EventTypeAccountCreated,
		events.EventTypeWithdrawalRequested,
		events.EventTypeWithdrawalStatusChanged,
		events.EventTypeWithdrawalCompleted,
	}
}

// AllSubjects returns every subject the forwarder publishes to
func AllSubjects() []string {
	types := ForwardedEventTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, SubjectFor(t))
	}
	return out
}
