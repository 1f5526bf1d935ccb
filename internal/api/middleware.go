package api

import (
	"net/http"

	"github.com/lockstake/staking-ledger/internal/observability/tracing"
)

// operatorKeyHeader carries the operator credential on admin routes.
// Its value is handed to the ledger as the caller identity; the ledger
// re-checks it on every privileged operation.
const operatorKeyHeader = "X-Operator-Key"

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.InjectTraceID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
