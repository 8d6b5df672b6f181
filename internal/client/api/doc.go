// Package api is the MenuUp client's view of the recipe backend.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer;
// HTTPClient implements it over JSON/HTTP:
//
//	POST  /auth/login            {email, senha}       -> {token, user}
//	POST  /auth/register         {nome, email, senha} -> 201 | {success:true}
//	POST  /auth/logout           bearer
//	GET   /auth/validate-token   bearer               -> 2xx | 401
//	PATCH /auth/change-password  bearer
//	GET   /receitas/publicas?search=&type=
//	GET   /receitas/{id}
//	POST  /receitas/create       bearer
//
// Every request carries an X-Request-ID and runs under the configured
// timeout, so a hung backend surfaces as ErrUnavailable instead of blocking.
//
// # Error Handling
//
// Responses map to sentinel errors matched with errors.Is: ErrUnauthorized
// (401), ErrForbidden (403), ErrBadRequest (400/409/422), ErrNotFound
// (404), ErrUnavailable (5xx, transport failures, timeouts) and
// ErrMalformedResponse.
package api
