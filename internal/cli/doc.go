// Package cli provides the interactive GManager command-line client.
//
// It wires configuration, storage, the vault lifecycle, and an interactive
// REPL that operates on the local encrypted vault. Typical flow: unlock the
// vault with the master password, then execute account, group and tag
// commands until the user exits or locks the vault again.
//
// Key features:
//   - Setup / Unlock / Lock / ChangePassword
//   - Add, edit, search, show and remove accounts
//   - Organize accounts into groups and tags
//   - Copy a password to the clipboard with automatic clearing
//   - Vault statistics and the operation log
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
