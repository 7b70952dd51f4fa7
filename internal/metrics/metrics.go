package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	ProductMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_product_mutations_total",
		Help: "Admin product mutations by action and result.",
	}, []string{"action", "result"})

	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_auth_attempts_total",
		Help: "Account flow attempts by flow and result.",
	}, []string{"flow", "result"})

	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_uploads_total",
		Help: "Product image uploads by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(ProductMutations, AuthAttempts, Uploads)
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
