package notifications

import (
	"context"
	"fmt"
	"log"

	"seatify/internal/shared/config"
)

// Service owns the full notification pipeline: the Kafka producer the
// booking flow publishes to, and the consumer workers that drain the
// topic into SMTP.
type Service struct {
	Producer *KafkaProducer
	Notifier *BookingNotifier
	consumer Consumer
}

// NewService wires the pipeline from application configuration. Returns
// nil with no error when Kafka is disabled; callers treat a nil service
// as "no notifications".
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.BookingsTopic

	producer, err := NewKafkaProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("notification producer: %w", err)
	}

	emailService, err := NewSMTPEmailService(NewSMTPConfig(cfg))
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("notification email service: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroup
	consumerConfig.Topics = []string{cfg.Kafka.BookingsTopic}

	consumer, err := NewKafkaConsumer(consumerConfig, emailService)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("notification consumer: %w", err)
	}

	return &Service{
		Producer: producer,
		Notifier: NewBookingNotifier(producer),
		consumer: consumer,
	}, nil
}

// Start launches the consumer workers.
func (s *Service) Start(ctx context.Context, numWorkers int) error {
	return s.consumer.StartConsumers(ctx, numWorkers)
}

// Stop shuts the pipeline down, consumer first so in-flight messages
// finish before the producer closes.
func (s *Service) Stop() {
	if err := s.consumer.Stop(); err != nil {
		log.Printf("📥 Error stopping notification consumer: %v", err)
	}
	if err := s.Producer.Close(); err != nil {
		log.Printf("📤 Error closing notification producer: %v", err)
	}
}
