// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package notifications posts fire-and-forget download notices to a Slack
// webhook. Delivery is best effort: failures are logged, never surfaced to
// the request path that triggered them.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
)

const (
	postTimeout = 10 * time.Second
	queueSize   = 32
)

// Event is one artwork download worth announcing.
type Event struct {
	Message   string
	LocalPath string
	SourceURL string
}

type slackPayload struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Fallback string `json:"fallback,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// SlackNotifier queues events and posts them from a single worker goroutine.
// With an empty webhook URL every call is a no-op.
type SlackNotifier struct {
	webhookURL string
	client     *resty.Client
	queue      chan Event
	logger     zerolog.Logger
}

// NewSlackNotifier creates a notifier. Call Start to begin delivery.
func NewSlackNotifier(webhookURL string, logger zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     resty.New().SetTimeout(postTimeout).SetHeader("User-Agent", buildinfo.UserAgent),
		queue:      make(chan Event, queueSize),
		logger:     logger.With().Str("component", "notifications").Logger(),
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *SlackNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// Start runs the delivery worker until ctx is cancelled.
func (n *SlackNotifier) Start(ctx context.Context) {
	if !n.Enabled() {
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-n.queue:
				n.post(ctx, ev)
			}
		}
	}()
}

// Notify enqueues an event. When the queue is full the event is dropped with
// a warning; notifications never block a download.
func (n *SlackNotifier) Notify(ev Event) {
	if !n.Enabled() {
		return
	}
	select {
	case n.queue <- ev:
	default:
		n.logger.Warn().Str("message", ev.Message).Msg("notification queue full, dropping event")
	}
}

func (n *SlackNotifier) post(ctx context.Context, ev Event) {
	payload := slackPayload{Text: ev.Message}
	if ev.SourceURL != "" {
		payload.Attachments = []slackAttachment{{
			Fallback: fmt.Sprintf("Saved to %s", ev.LocalPath),
			ImageURL: ev.SourceURL,
		}}
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.webhookURL)
	if err != nil {
		n.logger.Error().Err(err).Msg("slack notification failed")
		return
	}
	if !resp.IsSuccess() {
		n.logger.Error().Str("status", resp.Status()).Msg("slack notification rejected")
		return
	}
	n.logger.Debug().Str("message", ev.Message).Msg("slack notification sent")
}
