package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/elevenxsolutions/elevenx-api/internal/infra/database"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/handlers"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/middleware"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/crm"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/groq"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/wordpress"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/mail"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/queue"
	"github.com/elevenxsolutions/elevenx-api/internal/usecase"
)

const chatTimeout = 60 * time.Second

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)

	// 2. Queue (optional: intake degrades gracefully without it)
	var producer usecase.QueueProducerInterface
	var rabbitMQ *queue.RabbitMQ
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err = queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatalf("rabbitmq connection failed: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	// 3. Integrations
	smtpPort := 587
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), smtpPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"), os.Getenv("ADMIN_EMAIL"),
	)
	groqClient := groq.NewClient(
		os.Getenv("GROQ_API_KEY"),
		os.Getenv("GROQ_API_URL"),
		os.Getenv("GROQ_MODEL"),
	)
	cmsClient := wordpress.NewClient(os.Getenv("CMS_URL"))
	crmClient := crm.NewClient(os.Getenv("CRM_API_TOKEN"), os.Getenv("CRM_API_URL"))

	// 4. Worker (consumes lead-captured events, syncs CRM)
	if rabbitMQ != nil && crmClient.IsConfigured() {
		worker := queue.NewWorker(rabbitMQ.Ch, crmClient)
		go worker.Start(queue.QueueName)
	}

	// 5. UseCases
	submitBookingUC := usecase.NewSubmitBookingUseCase(leadRepo, producer)
	dispatchUC := usecase.NewDispatchEmailsUseCase(leadRepo, mailSender)
	chatUC := usecase.NewChatStreamUseCase(groqClient)

	// 6. Handlers
	bookingHandler := handlers.NewBookingHandler(submitBookingUC)
	dispatchHandler := handlers.NewDispatchHandler(dispatchUC, os.Getenv("CRON_SECRET"))
	chatHandler := handlers.NewChatHandler(chatUC, chatTimeout)
	blogHandler := handlers.NewBlogHandler(cmsClient)
	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(
		db,
		rabbitConn,
		os.Getenv("GROQ_API_KEY") != "",
		os.Getenv("CMS_URL") != "",
	)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://elevenxsolutions.com", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Post("/api/bookings", bookingHandler.Handle)
	r.Get("/api/cron/dispatch-emails", dispatchHandler.Handle)
	r.Post("/api/chat", chatHandler.Handle)
	r.Get("/api/blog/posts", blogHandler.HandleListPosts)
	r.Get("/api/blog/posts/{slug}", blogHandler.HandleGetPost)
	r.Get("/api/blog/categories", blogHandler.HandleListCategories)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("ElevenX API listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
