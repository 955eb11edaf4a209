package hecship

// Version information for the hecship module.
const (
	// Version is the current version of the hecship module.
	Version = "1.0.0"

	// UserAgent is sent with every collector request.
	UserAgent = "hecship/" + Version
)
