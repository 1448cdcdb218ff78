// Package shareclient provides the primary entry point for constructing a
// Delta Sharing client that implements the sharing.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource interfaces and types defined in the sharing package. Most
// applications should import shareclient to build a client, then use the
// returned sharing.Client to access resource-specific clients, for example
// Shares(), Schemas(), Tables().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/deltashare/pkg/shareclient"
//	  "github.com/fivetwenty-io/deltashare/pkg/sharing"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // From a profile file issued by the share provider:
//	  cli, err := shareclient.NewFromProfileFile("config.share")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an endpoint and a bearer token you already have:
//	  cli, err = shareclient.New(&sharing.Config{
//	    Endpoint:    "https://sharing.example.com/delta-sharing",
//	    BearerToken: "dapi...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the sharing.Client interface
//	  shares, err := cli.Shares().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = shares
//	}
//
// # Credentials
//
// New picks the credential source in a fixed order: an explicit
// Config.TokenProvider wins over Config.Profile, which wins over
// Config.BearerToken. A profile with an expired token fails on the first
// request rather than at construction.
//
// # Helpers
//
// The package also provides convenience constructors NewWithProfile,
// NewFromProfileFile, and NewWithToken that wrap New with the appropriate
// configuration.
package shareclient
