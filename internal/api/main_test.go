package api

import (
	"os"
	"testing"

	"github.com/lockstake/staking-ledger/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init(0)
	os.Exit(m.Run())
}
