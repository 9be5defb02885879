// Package catalog models programs and episodes and implements the client
// for the remote catalog's GraphQL gateway.
//
// The gateway only accepts persisted queries, so the client issues GET
// requests carrying pre-registered operation hashes. Responses are validated
// at this boundary into the normalized Program/Episode model; anything that
// does not match the expected schema surfaces as ErrMalformed rather than
// leaking untyped data into the download pipeline.
package catalog
