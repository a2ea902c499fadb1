// Package aggregates defines the error vocabulary shared by write boundaries.
//
// Persistence adapters map driver failures onto these codes so transport layers can
// pick status codes without knowing the database in use.
package aggregates
