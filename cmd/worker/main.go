// cmd/worker/main.go
//
// Report consumer: drains the campaign_reports queue and logs per-campaign
// summaries. Stands in for the analytics ingestion that reads the same
// events in production.
package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/AWD-Projects/xianna-campaign-service/internal/config"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("loading config")
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to broker")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("opening channel")
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.AMQP.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("declaring queue")
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("registering consumer")
	}

	log.Info().Str("queue", q.Name).Msg("worker running, waiting for reports")

	for d := range msgs {
		var report model.CampaignReport
		if err := json.Unmarshal(d.Body, &report); err != nil {
			log.Warn().Err(err).Msg("invalid report payload, dropping")
			d.Ack(false)
			continue
		}

		log.Info().
			Str("campaign_id", report.CampaignID).
			Int("dispatched", report.Dispatched).
			Int("skipped", report.Skipped).
			Int("failed", report.Failed).
			Msg("campaign report received")

		for _, o := range report.Outcomes {
			if o.Status == model.OutcomeFailed {
				log.Warn().
					Str("campaign_id", report.CampaignID).
					Str("recipient_id", o.RecipientID).
					Str("detail", o.ErrorDetail).
					Msg("recipient failed")
			}
		}

		d.Ack(false)
	}
}
