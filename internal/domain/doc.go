// Package domain defines the core business entities of the FAQ service
// and the validation rules that keep them consistent.
package domain
