// Package client contains client-side building blocks for timevault.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     login, the asset ledger (CreateMint, OpenAccount, MintTo, GetAccount)
//     and the vault instructions (Initialize, Deposit, Withdraw, GetVault,
//     ListReceipts).
//  2. A concrete gRPC implementation (see GRPCClient) that signs the login
//     proof, injects the access token via an interceptor, transparently
//     refreshes expired tokens and maps gRPC statuses back to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI
//     profile, an SQLite database migrated with embedded goose migrations.
//
// # Error Handling
//
// Instruction failures come back as the sentinels in internal/common
// (common.ErrLockNotExpired, common.ErrInvalidAccountBinding, ...), so callers
// match them with errors.Is exactly as on the server. Transport conditions
// are ErrUnavailable, ErrUnauthenticated and ErrRateLimited.
package client
