package mail

import "github.com/zenbild/backend/pkg/metrics"

func observeDelivery(provider string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.EmailsSent.WithLabelValues(provider, result).Inc()
}
