// Package mocks provides hand-written test doubles for the interfaces the
// service and API layers depend on.
//
// Each mock has an optional function field per method, default return
// values used when the function is nil, and call tracking guarded by a
// mutex so concurrent tests can assert on call counts:
//
//	gen := &mocks.MockGenerator{Err: generation.ErrTransportFailure}
//	_, _, err := svc.Generate(ctx, userID, req)
//	require.Equal(t, 1, gen.Calls())
package mocks
