// Package collaboration models the inter-organization collaboration lifecycle:
// pending review, activation, rejection with resubmission, and terminal
// completion or cancellation. Every operation returns a new immutable value;
// persistence belongs to the caller.
package collaboration
