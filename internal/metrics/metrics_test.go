package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, ResultError, Result(errors.New("x")))
}

func TestProductMutationsCounts(t *testing.T) {
	before := testutil.ToFloat64(ProductMutations.WithLabelValues("delete", ResultError))
	ProductMutations.WithLabelValues("delete", Result(errors.New("gone"))).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ProductMutations.WithLabelValues("delete", ResultError)))
}
