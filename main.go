package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mock-interview/internal/backend"
	"mock-interview/internal/config"
	"mock-interview/internal/interview"
	"mock-interview/internal/logging"
	"mock-interview/internal/metrics"
	"mock-interview/internal/report"
	"mock-interview/internal/storage"
	"mock-interview/internal/web"
)

// app содержит общие зависимости подкоманд
type app struct {
	appConfig *config.AppConfig
	config    *config.Config
	log       zerolog.Logger
	metrics   *metrics.Metrics
	client    *backend.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "mock-interview",
		Short:         "Mock interview practice client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newPracticeCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newFeedbackCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	return rootCmd
}

func (a *app) init() error {
	// .env необязателен: переменные могут прийти из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "⚠️ Ошибка загрузки .env файла: %v\n", err)
	}

	a.appConfig = config.LoadAppConfig()
	a.log = logging.New(a.appConfig.LogLevel, a.appConfig.LogFormat, os.Stderr)

	cfg, err := config.LoadOrDefault(a.appConfig.ConfigPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации интервью: %w", err)
	}
	config.ApplyEnv(cfg)
	if err := cfg.Backend.ValidateConfig(); err != nil {
		return fmt.Errorf("ошибка конфигурации бэкенда: %w", err)
	}
	a.config = cfg
	a.log.Debug().Fields(cfg.Backend.GetInfo()).Msg("backend config loaded")

	a.metrics = metrics.NewMetrics()
	a.client = backend.New(cfg.Backend,
		backend.WithLogger(a.log.With().Str("component", "backend").Logger()),
		backend.WithMetrics(a.metrics))
	return nil
}

// journal открывает журнал попыток и наблюдатель, который в него пишет
func (a *app) journal() (storage.Repository, interview.Observer, error) {
	repo, err := storage.Open(a.config.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка открытия журнала: %w", err)
	}
	observer := interview.Observers{
		interview.MetricsObserver{Metrics: a.metrics},
		storage.NewJournal(repo, a.log.With().Str("component", "journal").Logger()),
	}
	return repo, observer, nil
}

func (a *app) closeRepo(repo storage.Repository) {
	if err := repo.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close journal")
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web adapter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println("🚀 Запуск Mock Interview...")

			repo, observer, err := a.journal()
			if err != nil {
				return err
			}
			defer a.closeRepo(repo)

			server := web.New(a.config, a.client, observer, a.metrics, a.log)

			fmt.Println("\n📋 Конфигурация:")
			info := a.config.Backend.GetInfo()
			fmt.Printf("• Backend: %s (таймаут %s)\n", info["base_url"], info["timeout"])
			fmt.Printf("• Сценарии: %v (по умолчанию %s)\n", a.config.FlowNames(), a.config.DefaultFlow)
			fmt.Printf("• Журнал: %s\n", a.config.Storage.Driver)
			fmt.Printf("• Адрес: %s\n", a.config.Server.Addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx); err != nil {
				return fmt.Errorf("ошибка запуска сервера: %w", err)
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var email string
	var local bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous interviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var entries []report.HistoryEntry
			if local {
				repo, err := storage.Open(a.config.Storage)
				if err != nil {
					return fmt.Errorf("ошибка открытия журнала: %w", err)
				}
				defer a.closeRepo(repo)

				records, err := repo.List(ctx, email)
				if err != nil {
					return fmt.Errorf("ошибка чтения журнала: %w", err)
				}
				entries = report.LocalHistory(records)
			} else {
				records, err := a.client.CandidateInterviews(ctx, email)
				if err != nil {
					return userError(err)
				}
				entries = report.History(records)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RenderHistory(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "candidate email")
	cmd.Flags().BoolVar(&local, "local", false, "read the local attempt journal instead of the backend")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newFeedbackCmd(a *app) *cobra.Command {
	var email, interviewID string
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Show overall or per-interview feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				raw []byte
				err error
			)
			if interviewID != "" {
				raw, err = a.client.InterviewFeedback(ctx, interviewID)
			} else {
				raw, err = a.client.OverallFeedback(ctx, email)
			}
			if err != nil && backend.KindOf(err) != backend.ProtocolFailure {
				return userError(err)
			}

			var fb *report.Feedback
			if err == nil {
				// нечитаемый разбор показываем как отсутствие данных
				fb, _ = report.ParseFeedback(raw)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RenderFeedback(fb))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "candidate email")
	cmd.Flags().StringVar(&interviewID, "interview", "", "interview id (default: overall feedback)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg backend.Registration
	var projects, achievements, experience string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a candidate profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("projects") {
				reg.Projects = &projects
			}
			if cmd.Flags().Changed("achievements") {
				reg.Achievements = &achievements
			}
			if cmd.Flags().Changed("experience") {
				reg.Experience = &experience
			}
			if err := a.client.RegisterCandidate(cmd.Context(), reg); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Registration successful: %s\n", reg.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Name, "name", "", "full name")
	f.StringVar(&reg.Email, "email", "", "email")
	f.StringVar(&reg.Role, "role", "", "target role")
	f.StringVar(&reg.Skills, "skills", "", "comma-separated skills")
	f.StringVar(&reg.Education, "education", "", "education")
	f.StringVar(&projects, "projects", "", "projects (optional)")
	f.StringVar(&achievements, "achievements", "", "achievements (optional)")
	f.StringVar(&experience, "experience", "", "experience (optional)")
	return cmd
}

// userError превращает сбой бэкенда в сообщение для кандидата
func userError(err error) error {
	return fmt.Errorf("%s (%w)", backend.UserMessage(err), err)
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
