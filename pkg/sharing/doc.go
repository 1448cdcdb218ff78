// Package sharing provides types, interfaces, and helpers for working with
// Delta Sharing servers.
//
// # Overview
//
// The sharing package defines the domain types (e.g., Share, Schema, Table,
// the table actions) and the interfaces for resource-oriented clients
// (SharesClient, SchemasClient, TablesClient). A concrete implementation of
// these clients is provided by the shareclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// shareclient to construct a client and then interact with the resource
// client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/deltashare/pkg/shareclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := shareclient.NewFromProfileFile("config.share")
//	  if err != nil { log.Fatal(err) }
//
//	  // List every share visible to the recipient
//	  shares, err := cli.Shares().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = shares
//	}
//
// # Profiles
//
// A profile file carries the server endpoint and the recipient's bearer
// credential. LoadProfile and ParseProfile validate the file eagerly, so a
// stale or malformed profile fails at construction time rather than on the
// first request. Human-readable renderings of a profile always mask the
// token.
//
// # Queries and pagination
//
// Use Pagination to express list options (maxResults, pageToken). The
// aggregating List methods walk all pages; ListPaginated exposes one page at
// a time. The package also provides generic helpers for iterating or
// streaming paginated results:
//
//	it := sharing.NewPaginationIterator(fetch, &sharing.PaginationOptions{PageSize: 50})
//	for it.HasNext() {
//	  page, err := it.Next(ctx)
//	  if err != nil { break }
//	  _ = page
//	}
//
// # Errors
//
// Client errors are represented by Error, carrying a kind (profile, request,
// parse, client, server, internal) plus the server's status and error code
// where applicable. Helpers such as IsNotFound, IsUnauthorized, and
// IsForbidden make it easy to branch on common cases.
//
// # Table data
//
// Version, Metadata, Query, and Changes expose a table's snapshot
// information. Query and Changes responses arrive as newline-delimited
// action lines; ParseTableActions decodes them, and TableData/TableChanges
// carry the assembled protocol, metadata, and file actions in server order.
package sharing
