// Package main implements the database seed tool. It loads the sample
// FAQ corpus and creates the default admin account so a fresh deployment
// is immediately usable.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/platform/postgres"
	"github.com/faqhub/faq-api/internal/store"
)

type faqSeed struct {
	question string
	answer   string
}

var sampleFAQs = []faqSeed{
	{
		question: "How do I apply for vacation leave?",
		answer:   "You can apply for vacation leave through the HR portal under 'Leave Management'. Log in with your employee credentials, select 'Request Leave', choose 'Vacation', and fill in the required dates and details.",
	},
	{
		question: "How to reset my password?",
		answer:   "To reset your password, go to the IT self-service portal and click 'Reset Password'. You can also contact the IT helpdesk at ext. 1234 or email it-support@company.com.",
	},
	{
		question: "Where can I find my payroll information?",
		answer:   "Your payroll information is available in the Employee Self-Service portal under 'Payroll & Benefits'. You can view pay stubs, tax documents, and update direct deposit information there.",
	},
	{
		question: "What are the company working hours?",
		answer:   "Standard working hours are Monday to Friday, 9:00 AM to 5:00 PM. Some departments may have flexible hours. Please check with your manager for specific arrangements.",
	},
	{
		question: "How do I access the company VPN?",
		answer:   "To access the company VPN, download the VPN client from the IT portal, use your domain credentials to log in. For setup assistance, contact IT support at it-support@company.com.",
	},
	{
		question: "What is the dress code policy?",
		answer:   "Our dress code is business casual. Jeans are allowed on Fridays. For client meetings, business formal attire is required. Please refer to the employee handbook for detailed guidelines.",
	},
	{
		question: "How to book a meeting room?",
		answer:   "Meeting rooms can be booked through Outlook calendar or the room booking system on the intranet. Rooms are available on a first-come, first-served basis. Please cancel if you no longer need the room.",
	},
	{
		question: "What are the health insurance benefits?",
		answer:   "We offer comprehensive health insurance including medical, dental, and vision coverage. Details are available in the Benefits section of the HR portal. Open enrollment is in November each year.",
	},
	{
		question: "How do I report a technical issue?",
		answer:   "Technical issues can be reported through the IT helpdesk portal, by calling ext. 1234, or emailing it-support@company.com. Please provide detailed information about the issue for faster resolution.",
	},
	{
		question: "What is the remote work policy?",
		answer:   "Remote work is available 2-3 days per week depending on your role and manager approval. Please discuss with your manager and submit a remote work request through HR for approval.",
	},
	{
		question: "How to access company training programs?",
		answer:   "Training programs are available through the Learning Management System (LMS) on the company intranet. You can browse courses, enroll, and track your progress. Some courses require manager approval.",
	},
	{
		question: "What is the expense reimbursement process?",
		answer:   "Submit expense reports through the Finance portal with receipts attached. Business expenses are typically reimbursed within 2 weeks. For questions, contact finance@company.com.",
	},
}

// defaultAdminPassword is only for bootstrap; change it immediately in
// production.
const defaultAdminPassword = "admin123"

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	ctx := context.Background()

	if err := seedFAQs(ctx, postgres.NewPostgresFAQStore(db, log), log); err != nil {
		return err
	}

	if err := seedAdminUser(ctx, postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost), log); err != nil {
		return err
	}

	log.Info("database seed completed")
	return nil
}

// seedFAQs inserts the sample corpus unless FAQ entries already exist.
func seedFAQs(ctx context.Context, faqStore store.FAQStore, log *slog.Logger) error {
	count, err := faqStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count existing faqs: %w", err)
	}
	if count > 0 {
		log.Info("faqs already present, skipping", slog.Int64("count", count))
		return nil
	}

	for _, seed := range sampleFAQs {
		faq, err := domain.NewFAQ(seed.question, seed.answer)
		if err != nil {
			return fmt.Errorf("invalid sample faq %q: %w", seed.question, err)
		}
		if err := faqStore.Create(ctx, faq); err != nil {
			return fmt.Errorf("failed to insert faq %q: %w", seed.question, err)
		}
	}

	log.Info("sample faqs imported", slog.Int("count", len(sampleFAQs)))
	return nil
}

// seedAdminUser creates the bootstrap admin account if it does not exist.
func seedAdminUser(ctx context.Context, userStore store.UserStore, log *slog.Logger) error {
	if _, err := userStore.GetByUsername(ctx, "admin"); err == nil {
		log.Info("admin user already exists, skipping")
		return nil
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	admin, err := domain.NewUser("admin", "admin@company.com", defaultAdminPassword, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("invalid admin user: %w", err)
	}

	if err := userStore.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Warn("admin user created with default password, change it before going live",
		slog.String("username", "admin"))
	return nil
}
