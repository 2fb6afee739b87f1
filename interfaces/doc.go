// Package interfaces defines the core types and interfaces of the BlockWard
// issuance backend, separating interface definitions from implementations.
//
// # Data Model
//
// StudentProfile and IssuerProfile are owned by the datastore and read-only for
// the issuance flow. BlockWardRecord is the append-only result of a mint.
//
// # Chain Interfaces
//
// ChainFactory builds a fresh ChainClient and AwardToken for every request from
// explicit configuration. AwardToken is the subset of the BlockWard ERC-721
// contract the service uses: mint, tokenCounter, balanceOf, tokenOfOwnerByIndex
// and the Minted event.
//
// # Supporting Interfaces
//
//   - Datastore: profile lookups and record persistence
//   - KeySource: the custodial platform signing key
//   - MetadataPublisher: turns token metadata into a metadata URI
//   - IdempotencyGuard: deduplicates retried issuance requests
package interfaces
