package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_DescribeAndCollectDoNotPanic(t *testing.T) {
	Init(2)
	c := NewCollector()

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := testutil.GatherAndCount(reg); err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
}
