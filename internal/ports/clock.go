package ports

import "github.com/benbjohnson/clock"

// Clock provides the current time. clock.New() is the wall clock;
// clock.NewMock() is used in tests.
type Clock = clock.Clock

// HostnameFunc resolves the local machine name. os.Hostname satisfies it.
type HostnameFunc func() (string, error)
