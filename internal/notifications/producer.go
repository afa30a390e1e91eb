package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"seatify/internal/bookings"
)

// Producer publishes notifications to the broker.
type Producer interface {
	Publish(ctx context.Context, notification *Notification) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "seatify.bookings",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaProducer publishes booking notifications to Kafka.
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaProducer creates a new Kafka notification producer
func NewKafkaProducer(config *KafkaProducerConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps per-recipient ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka notification producer created successfully")
	return &KafkaProducer{producer: producer, config: config}, nil
}

// Publish publishes a single notification to Kafka
func (kp *KafkaProducer) Publish(ctx context.Context, notification *Notification) error {
	notification.Status = StatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.Status = StatusFailed
		errorStr := err.Error()
		notification.LastError = &errorStr
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("📤 Notification published - Topic: %s, Partition: %d, Offset: %d, Type: %s, Recipient: %s",
		kp.config.Topic, partition, offset, notification.Type, notification.RecipientEmail)

	return nil
}

// Close closes the underlying producer
func (kp *KafkaProducer) Close() error {
	return kp.producer.Close()
}

// BookingNotifier adapts the producer to the booking service's notifier
// contract.
type BookingNotifier struct {
	producer Producer
}

func NewBookingNotifier(producer Producer) *BookingNotifier {
	return &BookingNotifier{producer: producer}
}

// BookingCreated queues a confirmation email for a new booking.
func (bn *BookingNotifier) BookingCreated(ctx context.Context, n bookings.BookingCreatedNotification) error {
	notification := NewNotification(
		TypeBookingConfirmation,
		n.Email,
		n.FullName,
		fmt.Sprintf("Your seat for %s is confirmed", n.EventName),
		BookingDetails{
			BookingID:  n.BookingID,
			EventName:  n.EventName,
			Location:   n.Location,
			StartTime:  n.StartTime,
			EndTime:    n.EndTime,
			SeatLabel:  n.SeatLabel,
			QRImageURL: n.QRImageURL,
			ScanURL:    n.ScanURL,
		},
	)
	return bn.producer.Publish(ctx, notification)
}

// BookingCancelled queues a cancellation notice for a released booking.
func (bn *BookingNotifier) BookingCancelled(ctx context.Context, n bookings.BookingCancelledNotification) error {
	notification := NewNotification(
		TypeBookingCancellation,
		n.Email,
		n.FullName,
		fmt.Sprintf("Your booking for %s was cancelled", n.EventName),
		BookingDetails{
			BookingID: n.BookingID,
			EventName: n.EventName,
			SeatLabel: n.SeatLabel,
		},
	)
	return bn.producer.Publish(ctx, notification)
}
