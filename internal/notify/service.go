package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ryoha000/traQ-bookmaker/internal/logger"
	"github.com/ryoha000/traQ-bookmaker/internal/metrics"
	"github.com/ryoha000/traQ-bookmaker/internal/traq"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"

	maxTries = 3
)

// Sender delivers one notification. Implemented by the traQ client.
type Sender interface {
	CreateMessage(ctx context.Context, channelID, content string, embed bool) (*traq.Message, error)
	AddStamp(ctx context.Context, messageID, stampID string) error
}

type Job struct {
	ChannelID string    `json:"channel_id"`
	Content   string    `json:"content"`
	Embed     bool      `json:"embed"`
	MessageID string    `json:"message_id,omitempty"`
	StampID   string    `json:"stamp_id,omitempty"`
	Tries     int       `json:"tries"`
	Created   time.Time `json:"created"`
}

// Service queues channel notifications and acknowledgement stamps in redis and
// delivers them from a worker goroutine. Delivery is best effort: enqueue and
// send failures are logged and counted, never propagated back into committed
// wager or ledger state.
type Service struct {
	redis  *redis.Client
	sender Sender
}

func New(redisAddr string, sender Sender) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		sender: sender,
	}
}

// SendMessage queues a plain channel message.
func (s *Service) SendMessage(ctx context.Context, channelID, content string, embed bool) error {
	return s.enqueue(ctx, Job{
		ChannelID: channelID,
		Content:   content,
		Embed:     embed,
		Created:   time.Now(),
	})
}

// SendStamp queues an acknowledgement stamp on the triggering message.
func (s *Service) SendStamp(ctx context.Context, messageID, stampID string) error {
	return s.enqueue(ctx, Job{
		MessageID: messageID,
		StampID:   stampID,
		Created:   time.Now(),
	})
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification for channel %s: %v", job.ChannelID, err)
		metrics.RecordNotification("queue_error")
		return err
	}

	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	// Keeps the backlog gauge current between deliveries.
	gauge := time.NewTicker(15 * time.Second)
	defer gauge.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		case <-gauge.C:
			s.QueueLength(ctx)
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.deliver(ctx, job); err != nil {
		logger.Errorf("Failed to deliver notification (attempt %d): %v", job.Tries, err)
		metrics.RecordNotification("error")

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification("sent")
}

func (s *Service) deliver(ctx context.Context, job Job) error {
	if job.StampID != "" {
		return s.sender.AddStamp(ctx, job.MessageID, job.StampID)
	}

	_, err := s.sender.CreateMessage(ctx, job.ChannelID, job.Content, job.Embed)
	return err
}

func (s *Service) saveFailed(job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Errorf("Notification moved to failed queue after %d attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
