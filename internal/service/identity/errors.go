package identity

import "errors"

// Common identity service errors
var (
	// ErrTokenRejected indicates the Authorization header is absent,
	// malformed, or its token failed provider verification. Every
	// verification sub-failure (bad signature, expiry, wrong audience,
	// provider unreachable) collapses into this one outcome so nothing
	// about the verification internals leaks to the caller.
	ErrTokenRejected = errors.New("bearer token rejected")

	// ErrUnauthenticated indicates the request carries no verifiable
	// identity and must be refused before any data access.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnregistered indicates the token verified but no account has been
	// provisioned for its subject yet. Distinct from ErrUnauthenticated; it
	// signals "call provisioning first", and reads never provision
	// implicitly.
	ErrUnregistered = errors.New("subject not registered")
)
