// Package rest provides the Backend adapter for the apartment trade HTTP API.
//
// Every endpoint takes or returns JSON. Non-2xx responses become
// *domain.NetworkError carrying the backend's "detail" message, which may be
// a plain string or a FastAPI validation list.
package rest
