// Package notify publishes export job lifecycle events to RabbitMQ.
// Publishing is best-effort: a broker outage never affects the export
// outcome.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/shared/rabbitmq"
)

const (
	routingKeyCompleted = "export.job.completed"
	routingKeyFailed    = "export.job.failed"
)

// jobEvent is the wire shape of a lifecycle event.
type jobEvent struct {
	JobID      string    `json:"jobId"`
	Status     string    `json:"status"`
	Format     string    `json:"format"`
	FileName   string    `json:"fileName,omitempty"`
	FileSize   int64     `json:"fileSize,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AMQPNotifier implements export.Notifier over a RabbitMQ exchange.
type AMQPNotifier struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

func NewAMQPNotifier(client *rabbitmq.Client, logger *slog.Logger) *AMQPNotifier {
	return &AMQPNotifier{
		client: client,
		logger: logger,
	}
}

func (n *AMQPNotifier) JobCompleted(ctx context.Context, job *domain.Job) {
	n.publish(ctx, routingKeyCompleted, job)
}

func (n *AMQPNotifier) JobFailed(ctx context.Context, job *domain.Job) {
	n.publish(ctx, routingKeyFailed, job)
}

func (n *AMQPNotifier) publish(ctx context.Context, routingKey string, job *domain.Job) {
	event := jobEvent{
		JobID:      job.ID,
		Status:     string(job.Status),
		Format:     string(job.Format),
		FileName:   job.FileName,
		FileSize:   job.FileSize,
		Error:      job.Error,
		OccurredAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode job event",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := n.client.Publish(ctx, routingKey, body, "application/json"); err != nil {
		n.logger.Warn("Failed to publish job event",
			slog.String("job_id", job.ID),
			slog.String("routing_key", routingKey),
			slog.String("error", err.Error()),
		)
	}
}
