/*
Package httpserver serves the BlockWard API.

Routes:

	GET  /livez, /readyz, /drain, /undrain   server lifecycle
	GET  /api/health/chain                    chain health check
	GET  /api/blockwards/{id}/qrcode          explorer QR code
	POST /api/blockwards/issue                mint a BlockWard (JWT)
	GET  /api/blockwards/{id}                 one record (JWT)
	GET  /api/students/{studentId}/blockwards a student's records (JWT)

Every route is request-logged with httplogger and recovers from panics. The
/api routes are size and rate limited. /readyz reports 503 while draining or
when the datastore does not answer a ping.

Prometheus metrics are served on a separate address when configured, and pprof
is mounted at /debug when enabled.
*/
package httpserver
