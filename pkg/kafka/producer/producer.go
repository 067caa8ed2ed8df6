package producer

import (
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"

	"fixengine/pkg/collector"
	"fixengine/pkg/logs"
)

type Producer struct {
	producer sarama.SyncProducer
}

func KafkaProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka: producer: %w", err)
	}
	return NewProducer(producer), nil
}

func NewProducer(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

// Publish sends v as JSON to topic, partitioned by key.
func (p *Producer) Publish(topic, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", topic, err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("kafka: publish %s: %w", topic, err)
	}
	collector.OutgoingKafkaCounter.WithLabelValues(topic).Inc()
	logs.Log.Debug().Str("topic", topic).Int32("partition", partition).Int64("offset", offset).Msg("kafka message sent")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
