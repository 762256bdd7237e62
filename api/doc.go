// Package api exposes the search service over HTTP.
//
// The only search endpoint is GET /api/buscar. Query parameters select the
// fields to match (name or nome, habitat, type or tipo), pagination (page,
// limit), AND combination (usarClausulaANDParaBusca=true) and per-request
// thresholds (precisaoDaBusca, precisaoDaBuscaTraduzidaFloat). Requests with
// no parameters or with an unrecognised one are rejected with 400.
package api
