package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/config"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/notify"
	"github.com/wneessen/go-mail"
)

type mailSpec struct {
	templateFile string
	subject      string
	headline     string
}

// Every exchange notification shares one template; the headline tells the
// recipient what actually happened, the rest of the body is the shift data.
var mailSpecs = map[domain.NotificationKind]mailSpec{
	domain.NotificationAccountCreated: {
		templateFile: "new_account_email.html",
		subject:      "Salt River Rostering - Your new account",
	},
	domain.NotificationResetPassword: {
		templateFile: "reset_password_otp_email.html",
		subject:      "Salt River Rostering - Password reset code",
	},
	domain.NotificationChangeEmail: {
		templateFile: "change_email_otp_email.html",
		subject:      "Salt River Rostering - Email change code",
	},
	domain.NotificationRosterPublished: {
		templateFile: "roster_published_email.html",
		subject:      "Salt River Rostering - Your roster is out",
	},
	domain.NotificationSwapRequested: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Swap request",
		headline:     "A shift swap involving you has been requested.",
	},
	domain.NotificationSwapApproved: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Swap approved",
		headline:     "The shift swap has been approved.",
	},
	domain.NotificationSwapDenied: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Swap denied",
		headline:     "The shift swap has been denied.",
	},
	domain.NotificationVolunteerOpened: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Shift needs cover",
		headline:     "A colleague is asking someone to take over their shift.",
	},
	domain.NotificationShiftVolunteered: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Someone volunteered",
		headline:     "Someone volunteered to take over the shift.",
	},
	domain.NotificationVolunteerApproved: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Hand-over approved",
		headline:     "The shift hand-over has been approved.",
	},
	domain.NotificationVolunteerCancelled: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Cover request cancelled",
		headline:     "A cover request has been cancelled.",
	},
	domain.NotificationExchangeExpired: {
		templateFile: "exchange_event_email.html",
		subject:      "Salt River Rostering - Request expired",
		headline:     "An exchange request expired before it was resolved.",
	},
	domain.NotificationAvailabilityReminder: {
		templateFile: "availability_reminder_email.html",
		subject:      "Salt River Rostering - Availability reminder",
	},
}

func main() {
	/**********************************************
	 * Create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * Load configuration
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Create the mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// Dial once at boot so credential problems surface before consuming.
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to the mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Connect to RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open a channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// Both producer and consumer declare the queue so either can start first.
	q, err := ch.QueueDeclare(
		notify.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare the notification queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed, stopping worker")
					return
				}

				message := domain.NotificationMessage{}
				if err := json.Unmarshal(msg.Body, &message); err != nil {
					logger.Error("failed to decode notification", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				logger.Info("notification received", slog.String("kind", string(message.Kind)), slog.String("to", message.To.Email))

				spec, ok := mailSpecs[message.Kind]
				if !ok {
					logger.Error("unsupported notification kind", slog.String("kind", string(message.Kind)))
					_ = msg.Nack(false, false)
					continue
				}

				m := mail.NewMsg()
				if err := m.FromFormat(cfg.Email.SenderName, cfg.Email.SenderAddress); err != nil {
					logger.Error("failed to set sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(message.To.Email); err != nil {
					logger.Error("failed to set recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				m.Subject(spec.subject)

				data := map[string]any{}
				if fields, ok := message.Data.(map[string]any); ok {
					for key, value := range fields {
						data[key] = value
					}
				}
				if spec.headline != "" {
					data["headline"] = spec.headline
				}

				tmpl, err := template.ParseFiles("./templates/" + spec.templateFile)
				if err != nil {
					logger.Error("failed to parse mail template", slog.String("template", spec.templateFile), slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
					logger.Error("failed to render mail body", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("failed to send mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue for another attempt
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for notifications... (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notifier worker...")
	cancel()
	wg.Wait()
	slog.Info("notifier worker stopped")
}
