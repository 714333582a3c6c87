// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package revalidate carries cache revalidation requests from the admin
// write path to the public rendering caches over a watermill topic. The
// Publisher side is what managers and handlers hold; the Consumer side
// fans each request out to the page and fetch caches.
package revalidate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic is the watermill topic revalidation requests travel on.
const Topic = "pages.revalidate"

// Request is the message payload.
type Request struct {
	Paths []string `json:"paths"`
	Tags  []string `json:"tags"`
}

// Sink is anything that can drop cached entries for paths and tags.
type Sink interface {
	Revalidate(ctx context.Context, paths, tags []string) error
}

// NewPubSub creates the in-process pub/sub used between the admin and
// public halves of the server.
func NewPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewStdLogger(false, false))
}

// Publisher turns Revalidate calls into messages.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps a watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Revalidate publishes one request. Empty requests are dropped.
func (p *Publisher) Revalidate(_ context.Context, paths, tags []string) error {
	if len(paths) == 0 && len(tags) == 0 {
		return nil
	}
	payload, err := json.Marshal(Request{Paths: paths, Tags: tags})
	if err != nil {
		return fmt.Errorf("marshal revalidate request: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish revalidate request: %w", err)
	}
	return nil
}

// Consumer forwards every request on the topic to its sinks.
type Consumer struct {
	sub   message.Subscriber
	sinks []Sink
}

// NewConsumer creates a consumer delivering to sinks in order.
func NewConsumer(sub message.Subscriber, sinks ...Sink) *Consumer {
	return &Consumer{sub: sub, sinks: sinks}
}

// Start subscribes and processes messages in the background until ctx is
// cancelled or the subscriber is closed.
func (c *Consumer) Start(ctx context.Context) error {
	messages, err := c.sub.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", Topic, err)
	}

	go func() {
		for msg := range messages {
			c.process(ctx, msg)
		}
	}()

	return nil
}

// process applies one request. Sink failures are logged and the message
// is acked anyway: a stale page expires on its TTL.
func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var req Request
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		slog.Error("invalid revalidate message", "id", msg.UUID, "error", err)
		return
	}

	for _, sink := range c.sinks {
		if err := sink.Revalidate(ctx, req.Paths, req.Tags); err != nil {
			slog.Warn("revalidate sink failed", "paths", req.Paths, "tags", req.Tags, "error", err)
		}
	}
	slog.Debug("revalidated", "paths", req.Paths, "tags", req.Tags)
}
