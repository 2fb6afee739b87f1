/*
Package api holds the types shared by the BlockWard HTTP handlers.

Handlers live in subpackages:

 1. health - chain connectivity and signer balance check
 2. issuance - mints a BlockWard and records it
 3. records - reads stored BlockWards and renders QR codes
 4. auth - JWT bearer authentication of issuers
 5. clients - Go client for the endpoints above

# Errors

Every handler failure is a *RequestError. Its Kind selects the HTTP status:

	configuration  500  missing signing key, RPC URL or contract address
	validation     400  missing request fields, student without a wallet
	not_found      404  unknown student or record
	chain          500  RPC, signing, contract or confirmation failure
	persistence    500  datastore failure after a confirmed mint
	metadata       500  metadata could not be published
	conflict       409  idempotency key still in flight
	auth           401  missing or invalid bearer token

The body is always {"error": ..., "details": ...} with details omitted when empty.
*/
package api
