// Command httpserver runs the BlockWard API.
//
// Chain, key, metadata, idempotency and auth settings come from the environment
// (optionally loaded from --env-file); see config.ChainEnvironment. Server
// settings are flags:
//
//	httpserver --listen-addr 0.0.0.0:8080 --datastore postgres://blockward@db/blockward --log-json
//
// Missing chain settings do not prevent startup; the health check and the
// issuance endpoint report them per request.
package main
