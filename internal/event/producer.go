package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/SupplierGo/internal/domain"
	pkgkafka "github.com/utafrali/SupplierGo/pkg/kafka"
	"github.com/utafrali/SupplierGo/pkg/logger"
)

// Aggregate types.
const (
	AggregateTypeUser     = "user"
	AggregateTypeSupplier = "supplier"
)

// SourceSupplierService identifies events originating from this service.
const SourceSupplierService = "supplier-service"

// Kafka topics for domain events.
var (
	TopicUserRegistered  = pkgkafka.Topic(AggregateTypeUser, "registered")
	TopicUserClaimAdded  = pkgkafka.Topic(AggregateTypeUser, "claim_added")
	TopicSupplierCreated = pkgkafka.Topic(AggregateTypeSupplier, "created")
	TopicSupplierUpdated = pkgkafka.Topic(AggregateTypeSupplier, "updated")
	TopicSupplierDeleted = pkgkafka.Topic(AggregateTypeSupplier, "deleted")
)

// UserRegisteredData is the payload for user.registered.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ClaimAddedData is the payload for user.claim_added.
type ClaimAddedData struct {
	UserID     string `json:"user_id"`
	ClaimType  string `json:"claim_type"`
	ClaimValue string `json:"claim_value"`
	GrantedBy  string `json:"granted_by"`
}

// SupplierData is the payload for supplier.created and supplier.updated.
type SupplierData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Active   bool   `json:"active"`
}

// SupplierDeletedData is the payload for supplier.deleted.
type SupplierDeletedData struct {
	ID string `json:"id"`
}

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes supplier-service domain events. A Producer built with a
// nil Publisher drops every event, which is how the service runs when Kafka
// is disabled.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
	})
}

// PublishClaimAdded publishes a user.claim_added event keyed by the user
// receiving the claim.
func (p *Producer) PublishClaimAdded(ctx context.Context, userID string, claim domain.Claim, grantedBy string) error {
	return p.publish(ctx, TopicUserClaimAdded, userID, AggregateTypeUser, ClaimAddedData{
		UserID:     userID,
		ClaimType:  claim.Type,
		ClaimValue: claim.Value,
		GrantedBy:  grantedBy,
	})
}

// PublishSupplierCreated publishes a supplier.created event.
func (p *Producer) PublishSupplierCreated(ctx context.Context, s *domain.Supplier) error {
	return p.publish(ctx, TopicSupplierCreated, s.ID().String(), AggregateTypeSupplier, supplierData(s))
}

// PublishSupplierUpdated publishes a supplier.updated event.
func (p *Producer) PublishSupplierUpdated(ctx context.Context, s *domain.Supplier) error {
	return p.publish(ctx, TopicSupplierUpdated, s.ID().String(), AggregateTypeSupplier, supplierData(s))
}

// PublishSupplierDeleted publishes a supplier.deleted event.
func (p *Producer) PublishSupplierDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicSupplierDeleted, id, AggregateTypeSupplier, SupplierDeletedData{ID: id})
}

func supplierData(s *domain.Supplier) SupplierData {
	return SupplierData{
		ID:       s.ID().String(),
		Name:     s.Name,
		Document: s.Document,
		Active:   s.Active,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceSupplierService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
