// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Services receive dependencies through constructor injection and depend on
// domain entities and store interfaces, never on concrete infrastructure.
// Expected failure conditions are sentinel errors callers branch on with
// errors.Is; the API layer maps them to HTTP status codes.
package service
