// Package domain contains the core business entities, value objects, and
// domain logic of the application: words, per-user review state, the attempt
// log and mastery records. It is independent of any specific infrastructure
// or delivery mechanism.
package domain
