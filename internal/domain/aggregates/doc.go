// Package aggregates defines the error vocabulary shared by the authoring
// aggregate and everything that reports on it.
//
// Codes are stable and mapped to transport statuses at the HTTP edge. Model
// failures additionally carry the model, prompt id and attempt count.
package aggregates
