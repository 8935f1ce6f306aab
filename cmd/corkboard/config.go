package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogFile = "log-file"
	FlagServer  = "server"

	// Open command flags
	FlagBoard           = "board"
	FlagCreate          = "create"
	FlagRefreshInterval = "refresh-interval"
	FlagTopK            = "top-k"

	// Output format flags
	FlagJSON = "json"
)
