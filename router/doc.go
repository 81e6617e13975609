// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Daily Poll API.

# Route Registration

NewRouter builds the services, wires the handlers into an http.ServeMux
and wraps the result in CORS:

	handler := router.NewRouter(st, cfg, roles)

# Endpoints

Health:

	GET /health - "OK" once the database answers a ping

Sign-in (public, rate limited per client IP):

	POST /auth/register    - Register a directory email
	POST /auth/login       - Sign in, registering on first use
	POST /auth/setup-admin - Create the single admin
	GET  /auth/me          - Current session (bearer token)

Voting (bearer token):

	GET  /polls/today      - Today's poll and the caller's state
	POST /polls/today/vote - Cast the caller's vote

Admin (bearer token with the admin role):

	GET    /admin/polls                       - List polls
	POST   /admin/polls                       - Create poll
	GET    /admin/polls/{id}                  - Poll with options
	PUT    /admin/polls/{id}                  - Edit poll
	DELETE /admin/polls/{id}                  - Delete poll
	POST   /admin/polls/{id}/toggle           - Flip is_active
	GET    /admin/polls/{id}/results          - Aggregated results
	GET    /admin/polls/{id}/export/voted     - Voted users xlsx
	GET    /admin/polls/{id}/export/not-voted - Not-voted users xlsx
	GET    /admin/directory                   - List directory
	POST   /admin/directory                   - Add one identity
	POST   /admin/directory/import            - Bulk xlsx import
	DELETE /admin/directory/{id}              - Remove identity
	POST   /admin/directory/{id}/visibility   - Hide or show in reports

# Middleware

Every route except /health and / is wrapped with middleware.WithLogging.
Bearer tokens are checked by middleware.Authenticator, whose admin check
goes through the registration service and its role cache.
*/
package router
