// Package cli provides the interactive MenuUp command-line client.
//
// It wires configuration, local storage, the session store, API services
// and an interactive REPL. On start the stored session is restored, the
// token is checked against the server in the background, and the REPL
// offers either the sign-in commands or the recipe commands depending on
// the current root screen.
//
// Key features:
//   - Register / Login / Logout / change password
//   - Browse highlights, search by title or category, show a recipe
//   - Create a recipe with ingredients, steps and images
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and session.Guard for details.
package cli
