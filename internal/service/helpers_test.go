package service

import (
	"context"
	"time"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/event"
	pkgkafka "github.com/utafrali/SupplierGo/pkg/kafka"
	"github.com/utafrali/SupplierGo/pkg/logger"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestIssuer() *auth.Issuer {
	return auth.NewIssuer(auth.SigningConfig{
		Secret:     "test-secret-key-for-unit-tests-only",
		Issuer:     "SupplierGo",
		Audience:   "https://localhost",
		Expiration: 2 * time.Hour,
	},
		auth.WithClock(func() time.Time { return testNow }),
		auth.WithIDGenerator(func() string { return "jti-1" }),
	)
}

// recordingPublisher captures the topics events were published to.
type recordingPublisher struct {
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ *pkgkafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func newTestProducer(pub *recordingPublisher) *event.Producer {
	return event.NewProducer(pub, logger.Discard())
}
