// Package scc provides a client for the SUSE Customer Center (SCC) API.
//
// SCC hosts the product catalog, repositories and subscriptions of an
// organization. This package implements a small, read-only client for the
// organization collection endpoints.
//
// # Usage
//
// Create a client with the organization credentials:
//
//	logger := zerolog.New(os.Stdout)
//	client := scc.NewClient("UC1234", "secret",
//		scc.WithLogger(logger),
//		scc.WithTimeout(30*time.Second),
//	)
//
//	products, err := client.ListProducts(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Use NewClientWithURL to talk to a mirror or a test server instead of
// scc.suse.com.
//
// # Error Handling
//
// Every failed call returns an *Error. Its Kind tells transport failures,
// non-success responses and undecodable bodies apart:
//
//	var sccErr *scc.Error
//	if errors.As(err, &sccErr) && sccErr.IsUnauthorized() {
//		// Handle bad credentials
//	}
//
// The sentinels ErrTransport, ErrStatus and ErrDecode work with errors.Is.
package scc
