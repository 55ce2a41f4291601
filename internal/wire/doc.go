// Package wire owns the channel payload contract.
//
// Ownership boundary:
// - length-prefixed string primitives
// - ForwardRequest and RelayMessage encode/decode
// - codec-level error taxonomy
//
// The two message shapes share one channel with no discriminant byte;
// direction decides the schema. Requests arrive at the router side, relay
// messages arrive at a destination side.
package wire
