// Package identity maps externally issued bearer tokens to internal
// accounts. It contains the token verifier (header parsing plus delegation
// to the identity provider), the provider contract, and the resolver that
// performs the subject-to-account lookup and idempotent first-use
// provisioning.
package identity
