package aggregator

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// no fetch or lookup goroutine may outlive a pipeline run
	goleak.VerifyTestMain(m)
}
