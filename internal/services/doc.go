// Package services holds the error taxonomy shared across pipeline components.
package services
