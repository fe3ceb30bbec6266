// Package cli implements the sportstore command-line client.
//
// Each invocation runs one subcommand against the HTTP API:
//
//	health
//	register [-name N] [-email E] [-dob YYYY-MM-DD] [-gender G]
//	login [-email E]
//	update-profile [-token T] [-dob YYYY-MM-DD] [-gender G]
//	me [-token T]
//
// Missing registration fields are prompted for. Passwords are always read
// from the terminal without echo and wiped after the request. Commands that
// need a token read it from -token or the SPORTSTORE_TOKEN variable.
package cli
