package consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Shopify/sarama"

	"fixengine/pkg/collector"
	"fixengine/pkg/logs"
)

type Handler func(message *sarama.ConsumerMessage)

func NewConsumer(brokers []string) (sarama.Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka: consumer: %w", err)
	}
	return consumer, nil
}

// KafkaConsumer reads the newest messages of every partition of topics and
// hands them to handle until ctx is done.
func KafkaConsumer(ctx context.Context, consumer sarama.Consumer, topics []string, handle Handler) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, topic := range topics {
		partitions, err := consumer.Partitions(topic)
		if err != nil {
			return fmt.Errorf("kafka: partitions of %s: %w", topic, err)
		}
		for _, partition := range partitions {
			pc, err := consumer.ConsumePartition(topic, partition, sarama.OffsetNewest)
			if err != nil {
				return fmt.Errorf("kafka: consume %s/%d: %w", topic, partition, err)
			}

			wg.Add(1)
			go func(topic string, pc sarama.PartitionConsumer) {
				defer wg.Done()
				defer pc.AsyncClose()
				for {
					select {
					case <-ctx.Done():
						return
					case message, ok := <-pc.Messages():
						if !ok {
							return
						}
						start := time.Now()
						collector.IncomingKafkaCounter.Inc()
						handle(message)
						collector.KafkaDurationHistogram.WithLabelValues(topic).Observe(time.Since(start).Seconds())
					case err, ok := <-pc.Errors():
						if !ok {
							return
						}
						logs.Log.Error().Err(err).Str("topic", topic).Msg("kafka consumer error")
					}
				}
			}(topic, pc)
		}
	}

	<-ctx.Done()
	return nil
}
