package payment

import (
	"maps"
	"strings"
)

// externalVocabulary maps gateway status strings and webhook action names onto
// the canonical status set. Keys are lowercase; lookups normalize case and
// surrounding whitespace.
var externalVocabulary = map[string]Status{
	// gateway status strings
	"pending":      StatusPending,
	"in_process":   StatusPending,
	"in_analysis":  StatusPending,
	"approved":     StatusApproved,
	"authorized":   StatusApproved,
	"paid":         StatusApproved,
	"rejected":     StatusRejected,
	"refused":      StatusRejected,
	"declined":     StatusRejected,
	"charged_back": StatusChargedBack,
	"chargedback":  StatusChargedBack,
	"refunded":     StatusRefunded,
	"reversed":     StatusRefunded,

	// webhook action names
	"chargeback": StatusChargedBack,
	"refund":     StatusRefunded,
}

// FromExternalEvent resolves an externally reported status string or webhook
// action name to its canonical status. Values outside the known vocabulary
// fail with *UnknownExternalStateError and are never coerced to a default, so
// an unverified gateway value can never corrupt the machine.
func FromExternalEvent(external string) (Status, error) {
	s, ok := externalVocabulary[strings.ToLower(strings.TrimSpace(external))]
	if !ok {
		return "", newUnknownExternalStateError(external)
	}
	return s, nil
}

// ApplyExternalEvent resolves an external value and drives the corresponding
// transition. The boolean reports whether a transition was applied: a value
// resolving to the payment's current status is treated as a duplicate or
// replayed delivery and is an idempotent no-op, returning the receiver
// unchanged with false rather than an error. Unknown values and illegal
// transitions fail as usual.
func (p Payment) ApplyExternalEvent(external string, metadata map[string]any) (Payment, bool, error) {
	target, err := FromExternalEvent(external)
	if err != nil {
		return Payment{}, false, err
	}
	if target == p.m.Current() {
		return p, false, nil
	}

	// Reserved keys are set last so a webhook payload carrying its own
	// "action" or "external_value" field cannot clobber the audit tag.
	meta := make(map[string]any, len(metadata)+2)
	maps.Copy(meta, metadata)
	meta["action"] = "external_event"
	meta["external_value"] = external

	next, err := p.transition(target, meta)
	if err != nil {
		return Payment{}, false, err
	}
	return next, true, nil
}
