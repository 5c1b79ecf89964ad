package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
	"github.com/heinthant2k4/sports-arena-booking/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Kind    string    `json:"kind"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

// Service queues outgoing mail in redis and delivers it from a worker loop.
type Service struct {
	redis      redis.Cmdable
	smtp       SMTPConfig
	send       func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	retryDelay time.Duration
}

func New(rdb redis.Cmdable, cfg SMTPConfig) *Service {
	return &Service{
		redis:      rdb,
		smtp:       cfg,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Kind:    "generic",
		Created: time.Now(),
	})
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to queue email", "to", job.To, "error", err)
		return err
	}

	logger.Info("Email queued", "subject", job.Subject, "to", job.To)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.tick(ctx)
		}
	}
}

// tick handles at most one job and refreshes the queue length gauge.
func (s *Service) tick(ctx context.Context) {
	s.processNext(ctx)
	if ctx.Err() == nil {
		s.QueueLength(ctx)
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("Email queue read failed", "error", err)
			time.Sleep(time.Second)
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("Dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Error("Failed to send email", "to", job.To, "attempt", job.Tries, "error", err)
		metrics.RecordEmail(job.Kind, "failed")

		if job.Tries < maxTries {
			s.requeue(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return
	}

	metrics.RecordEmail(job.Kind, "sent")
	logger.Info("Email sent", "to", job.To, "attempt", job.Tries)
}

func (s *Service) requeue(ctx context.Context, job EmailJob) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to requeue email", "to", job.To, "error", err)
	}
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return s.send(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if pushErr := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data)).Err(); pushErr != nil {
		logger.Error("Failed to record failed email", "to", job.To, "error", pushErr)
		return
	}
	logger.Error("Email moved to failed queue", "to", job.To, "tries", job.Tries)
}

// QueueLength reports the pending jobs and mirrors the value into the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, facilityName string, start, end time.Time) error {
	subject := "Booking Confirmed - " + facilityName
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed!

Facility: %s
Date: %s
Time: %s - %s

Please arrive a few minutes early. Bookings can be cancelled up to 2 hours before they start.

- Sports Arena`, name, facilityName,
		start.Format("Mon, Jan 2, 2006"), start.Format("15:04"), end.Format("15:04"))

	return s.enqueue(ctx, EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Kind:    "booking_confirmation",
		Created: time.Now(),
	})
}
