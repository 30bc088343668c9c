// Package pos defines the domain contracts for the point-of-sale core:
// the cart value type, the checkout aggregate contract, and the error
// taxonomy shared by catalog, cart, and receipt operations.
//
// These contracts intentionally avoid persistence/transport implementation
// details and represent semantic write boundaries where invariants must be
// enforced atomically.
package pos
