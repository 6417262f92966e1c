// File: cmd/version.go
package cmd

// Version is the application version.
// Set at build time: go build -ldflags "-X github.com/xkilldash9x/pomkit/cmd.Version=1.0.0"
var Version = "dev"
