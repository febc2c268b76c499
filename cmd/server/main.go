// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/config"
	"github.com/AWD-Projects/xianna-campaign-service/internal/content"
	"github.com/AWD-Projects/xianna-campaign-service/internal/db"
	"github.com/AWD-Projects/xianna-campaign-service/internal/dispatch"
	"github.com/AWD-Projects/xianna-campaign-service/internal/handler"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
	"github.com/AWD-Projects/xianna-campaign-service/internal/queue"
	"github.com/AWD-Projects/xianna-campaign-service/internal/quota"
	"github.com/AWD-Projects/xianna-campaign-service/internal/repository"
	"github.com/AWD-Projects/xianna-campaign-service/internal/service"
	"github.com/AWD-Projects/xianna-campaign-service/internal/ses"
	"github.com/AWD-Projects/xianna-campaign-service/internal/template"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("loading config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	defer conn.Close()

	ctx := context.Background()

	var contentRepo content.Repository = &repository.ContentRepository{DB: conn}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		contentRepo = content.NewCachedRepository(contentRepo, rdb, cfg.Redis.TTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("content cache enabled")
	}

	sesClient, err := ses.NewClient(ctx, cfg.SES)
	if err != nil {
		log.Fatal().Err(err).Msg("creating SES client")
	}

	var publisher queue.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = queue.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.QueueName)
		if err != nil {
			// Report events are best-effort; the service runs without them.
			log.Warn().Err(err).Msg("report publisher unavailable")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	store := &repository.CampaignStore{DB: conn}
	contentResolver := content.NewResolver(contentRepo, log)

	campaignService := &service.CampaignService{
		Store:    store,
		Resolver: template.NewResolver(contentResolver),
		Quota:    quota.NewGuard(cfg.Mailing.EmailQuotaLimit, store),
		Dispatchers: map[model.Channel]dispatch.Dispatcher{
			model.ChannelEmail: dispatch.NewEmailDispatcher(
				sesClient,
				cfg.Mailing.SenderName,
				cfg.Mailing.SenderAddress,
				cfg.Mailing.SendWorkers,
				cfg.Mailing.SendTimeout,
				log,
			),
			model.ChannelWhatsApp: dispatch.NewWhatsAppDispatcher(cfg.Mailing.MessagingDomain, log),
		},
		Publisher: publisher,
		Log:       log,
	}

	campaignHandler := &handler.CampaignHandler{
		Service:       campaignService,
		RecipientRepo: &repository.RecipientRepository{DB: conn},
		Log:           log,
	}

	r := chi.NewRouter()
	r.Get("/healthz", campaignHandler.Healthz)
	r.Post("/campaigns/compose", campaignHandler.ComposeCampaign)
	r.Post("/campaigns/preview", campaignHandler.PreviewResolvedTemplate)
	r.Get("/campaigns/{id}/report", campaignHandler.GetCampaignReport)

	log.Info().Str("addr", cfg.Server.Addr).Msg("server running")
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
