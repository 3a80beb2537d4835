// Package cli provides the interactive timevault command-line client.
//
// It wires configuration, the local profile database, the vault API client
// and an interactive REPL. Typical flow: unlock the signing key with its
// passphrase, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Keygen / Login with a passphrase-sealed ed25519 key
//   - Mint management: createmint, openaccount, mintto, balance
//   - Vault instructions: init, deposit, withdraw
//   - Inspection: show, receipts
//
// Addresses left blank at a prompt fall back to the mint and account
// remembered in the profile. The REPL is started via App.Run(ctx), which
// blocks until the user exits.
package cli
