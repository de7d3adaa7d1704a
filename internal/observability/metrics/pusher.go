package metrics

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher ships a registry once per pipeline run.
type Pusher interface {
	Push(ctx context.Context, registry *prometheus.Registry) error
}

// PushgatewayPusher pushes to a Prometheus Pushgateway.
type PushgatewayPusher struct {
	endpoint string
	job      string
	grouping map[string]string
}

// NewPusher returns nil when no Pushgateway is configured.
func NewPusher(cfg Config) Pusher {
	endpoint := strings.TrimSpace(cfg.PushgatewayURL)
	if endpoint == "" {
		return nil
	}
	job := strings.TrimSpace(cfg.ServiceName)
	if job == "" {
		job = "demandcast"
	}
	return NewPushgatewayPusher(endpoint, job, map[string]string{
		"environment": cfg.Environment,
	})
}

func NewPushgatewayPusher(endpoint, job string, grouping map[string]string) *PushgatewayPusher {
	return &PushgatewayPusher{
		endpoint: strings.TrimSpace(endpoint),
		job:      strings.TrimSpace(job),
		grouping: grouping,
	}
}

// Push replaces the job's metric group with the current registry contents.
func (p *PushgatewayPusher) Push(ctx context.Context, registry *prometheus.Registry) error {
	if p == nil || registry == nil {
		return nil
	}
	if p.endpoint == "" {
		return errors.New("pushgateway endpoint is required")
	}
	if p.job == "" {
		return errors.New("pushgateway job is required")
	}

	pusher := push.New(p.endpoint, p.job).Gatherer(registry)
	for key, value := range p.grouping {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		pusher = pusher.Grouping(key, value)
	}
	return pusher.PushContext(ctx)
}
