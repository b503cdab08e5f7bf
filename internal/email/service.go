package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"esportfed/internal/logger"
	"esportfed/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey   = "emails"
	entriesKey = "emails:entries"
	failedKey  = "emails:failed"

	maxAttempts = 3
)

type EntryStatus string

const (
	StatusPending EntryStatus = "pending"
	StatusSending EntryStatus = "sending"
	StatusSent    EntryStatus = "sent"
	StatusFailed  EntryStatus = "failed"
)

// Request is the Email Function input.
type Request struct {
	TemplateType   string         `json:"templateType" binding:"required"`
	RecipientEmail string         `json:"recipientEmail" binding:"required,email"`
	RecipientName  string         `json:"recipientName"`
	TemplateData   map[string]any `json:"templateData"`
}

type Result struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
}

type Job struct {
	ID           string    `json:"id"`
	TemplateType string    `json:"template_type"`
	To           string    `json:"to"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	HTML         string    `json:"html"`
	Tries        int       `json:"tries"`
	Created      time.Time `json:"created"`
}

// Entry is the per-email delivery record shown in the operator queue monitor.
type Entry struct {
	ID             string      `json:"id"`
	TemplateType   string      `json:"template_type"`
	RecipientEmail string      `json:"recipient_email"`
	RecipientName  string      `json:"recipient_name"`
	Subject        string      `json:"subject"`
	Status         EntryStatus `json:"status"`
	Attempts       int         `json:"attempts"`
	Error          string      `json:"error,omitempty"`
	ProviderID     string      `json:"provider_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type Service struct {
	redis      *redis.Client
	sender     Sender
	from       string
	fromName   string
	retryDelay time.Duration

	// pollBackoff is the pause after a failed queue read.
	pollBackoff time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func New(rdb *redis.Client, sender Sender, from, fromName string) *Service {
	return &Service{
		redis:       rdb,
		sender:      sender,
		from:        from,
		fromName:    fromName,
		retryDelay:  5 * time.Second,
		pollBackoff: time.Second,
	}
}

// Enqueue renders the template and queues the message for the worker.
func (s *Service) Enqueue(ctx context.Context, req Request) (Result, error) {
	subject, html, err := Render(req.TemplateType, req.TemplateData)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	job := Job{
		ID:           uuid.NewString(),
		TemplateType: req.TemplateType,
		To:           req.RecipientEmail,
		Name:         req.RecipientName,
		Subject:      subject,
		HTML:         html,
		Created:      now,
	}

	entry := Entry{
		ID:             job.ID,
		TemplateType:   job.TemplateType,
		RecipientEmail: job.To,
		RecipientName:  job.Name,
		Subject:        subject,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.saveEntry(ctx, entry); err != nil {
		logger.Errorf("Failed to record email entry for %s: %v", job.To, err)
		return Result{}, err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return Result{}, err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", job.To, err)
		return Result{}, err
	}

	metrics.RecordEmail(job.TemplateType, string(StatusPending))
	logger.Info("email queued", "email_id", job.ID, "template", job.TemplateType, "to", job.To)
	return Result{Success: true, EmailID: job.ID}, nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("email queue read failed", "error", err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(s.pollBackoff):
		}
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	s.deliver(ctx, job)
}

func (s *Service) deliver(ctx context.Context, job Job) {
	job.Tries++
	s.updateEntry(ctx, job.ID, func(e *Entry) {
		e.Status = StatusSending
		e.Attempts = job.Tries
	})

	providerID, err := s.sender.Send(ctx, Message{
		From:     s.from,
		FromName: s.fromName,
		To:       job.To,
		ToName:   job.Name,
		Subject:  job.Subject,
		HTML:     job.HTML,
	})
	if err != nil {
		logger.Warn("email delivery failed", "email_id", job.ID, "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxAttempts {
			s.updateEntry(ctx, job.ID, func(e *Entry) {
				e.Status = StatusPending
				e.Error = err.Error()
			})
			s.requeue(ctx, job)
			return
		}

		s.updateEntry(ctx, job.ID, func(e *Entry) {
			e.Status = StatusFailed
			e.Error = err.Error()
		})
		s.saveFailed(ctx, job, err)
		metrics.RecordEmail(job.TemplateType, string(StatusFailed))
		return
	}

	s.updateEntry(ctx, job.ID, func(e *Entry) {
		e.Status = StatusSent
		e.Error = ""
		e.ProviderID = providerID
	})
	metrics.RecordEmail(job.TemplateType, string(StatusSent))
	logger.Info("email sent", "email_id", job.ID, "to", job.To, "provider_id", providerID)
}

func (s *Service) requeue(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to requeue email %s: %v", job.ID, err)
		return
	}
	logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now().UTC(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data))
	logger.Errorf("Email %s to %s failed after %d attempts", job.ID, job.To, job.Tries)
}

func (s *Service) saveEntry(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.redis.HSet(ctx, entriesKey, e.ID, string(data)).Err()
}

func (s *Service) updateEntry(ctx context.Context, id string, mutate func(*Entry)) {
	ctx = context.WithoutCancel(ctx)

	raw, err := s.redis.HGet(ctx, entriesKey, id).Result()
	if err != nil {
		logger.Warn("email entry missing", "email_id", id, "error", err)
		return
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		logger.Warn("email entry unreadable", "email_id", id, "error", err)
		return
	}

	mutate(&e)
	e.UpdatedAt = time.Now().UTC()
	if err := s.saveEntry(ctx, e); err != nil {
		logger.Warn("email entry not updated", "email_id", id, "error", err)
	}
}

// Entries returns the most recent entries, optionally filtered by status.
func (s *Service) Entries(ctx context.Context, status EntryStatus, limit int) ([]Entry, error) {
	all, err := s.redis.HGetAll(ctx, entriesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read email entries: %w", err)
	}

	entries := make([]Entry, 0, len(all))
	for id, raw := range all {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			logger.Warn("skipping unreadable email entry", "email_id", id)
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *Service) Close() error {
	return s.redis.Close()
}
