// Package services holds the error taxonomy and context annotations shared by
// the classifier, the verifier, and the external clients.
//
// Call sites wrap failures with one of the sentinel errors so callers can
// classify them with errors.Is without inspecting message text.
package services
