// Package config loads the optional gusket.yaml file.
//
// Example:
//
//	version: "1"
//	output: gusket_gen.go
//	receiver: self
//	jobs: 4
//	types: [User, Account]
//	log:
//	  level: debug
//	  json: false
//
// Missing keys fall back to Default(); command-line flags override the file.
package config
