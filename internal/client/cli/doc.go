// Package cli provides the interactive vendor console.
//
// It wires configuration, the local token database, the REST client, the
// phone verification provider and the view services, then runs a REPL in
// which routes are opened with "go <route>". Every route goes through the
// role-based guard before it is rendered.
//
// Typical flow: open /login, sign in with a mobile number and a one-time
// code, land on the role's dashboard, move between sections, logout.
// A background watcher pings the API and shows online/offline in the
// prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the operator exits.
package cli
