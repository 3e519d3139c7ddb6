package codec

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

const (
	opStringToBytes = "string_to_bytes"
	opBytesToString = "bytes_to_string"
)

// Metrics 编解码器指标
//
// nil *Metrics 可以安全调用，此时不记录任何指标。
type Metrics struct {
	cacheRequests *prometheus.CounterVec
}

// NewMetrics 创建指标并注册到 reg
//
// 注册表规模和冻结状态在采集时读取，无需额外更新。
func NewMetrics(reg prometheus.Registerer, r *multiaddr.Registry) (*Metrics, error) {
	m := &Metrics{
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "multiaddr",
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Address codec cache lookups.",
			},
			[]string{"op", "result"},
		),
	}

	protocols := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "multiaddr",
			Subsystem: "registry",
			Name:      "protocols",
			Help:      "Number of registered protocols.",
		},
		func() float64 { return float64(r.Len()) },
	)
	sealed := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "multiaddr",
			Subsystem: "registry",
			Name:      "sealed",
			Help:      "1 if the protocol registry is sealed.",
		},
		func() float64 {
			if r.Sealed() {
				return 1
			}
			return 0
		},
	)

	for _, c := range []prometheus.Collector{m.cacheRequests, protocols, sealed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) cacheHit(op string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(op, "hit").Inc()
}

func (m *Metrics) cacheMiss(op string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(op, "miss").Inc()
}
