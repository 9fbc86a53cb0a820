//go:build integration

package gateway

import (
	"testing"

	"github.com/LeeDigitalWorks/filegate/integration/testutil"

	"go.uber.org/goleak"
)

// TestMain sets up and tears down the test suite
func TestMain(m *testing.M) {
	// Ignore HTTP transport goroutines from keep-alive connections
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newClient(t *testing.T) *testutil.GatewayClient {
	return testutil.NewGatewayClient(t, testutil.GatewayAddr)
}
