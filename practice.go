package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mock-interview/internal/audio"
	"mock-interview/internal/backend"
	"mock-interview/internal/config"
	"mock-interview/internal/interview"
	"mock-interview/internal/prompts"
	"mock-interview/internal/report"
)

const (
	commandEnd   = "end"
	commandRetry = "retry"
)

func newPracticeCmd(a *app) *cobra.Command {
	var email, flowName string
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run an interview in the terminal",
		Long: "Run an interview in the terminal. Each answer is the path to an audio file\n" +
			"(wav, webm, ogg, mp3, m4a; .pcm/.raw is wrapped into WAV);\n" +
			"an empty line skips the question, \"end\" ends the interview early.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow, err := a.config.GetFlow(flowName)
			if err != nil {
				return err
			}

			candidate, err := a.client.GetCandidate(cmd.Context(), email)
			if err != nil {
				if backend.KindOf(err) == backend.ApplicationFailure {
					return fmt.Errorf("no account found for %s, run \"mock-interview register\" first", email)
				}
				return userError(err)
			}

			repo, observer, err := a.journal()
			if err != nil {
				return err
			}
			defer a.closeRepo(repo)

			controller := interview.NewController(a.client,
				interview.WithObserver(observer),
				interview.WithLogger(a.log))

			ctx, stop := shutdownContext()
			defer stop()

			p := &practice{
				controller: controller,
				flow:       flow,
				in:         readLines(cmd.InOrStdin()),
				out:        cmd.OutOrStdout(),
			}
			return p.run(ctx, candidate.Email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "candidate email")
	cmd.Flags().StringVar(&flowName, "flow", "", "interview flow (default from config)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// practice ведет одну терминальную сессию: строка ввода — одно событие
type practice struct {
	controller *interview.Controller
	flow       config.Flow
	in         <-chan string
	out        io.Writer
}

// readLines читает строки r в отдельной горутине; канал закрывается на EOF.
// Горутина может пережить сессию, пока r не вернет управление.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func (p *practice) run(ctx context.Context, candidateID string) error {
	session, err := interview.NewSession(candidateID, p.flow)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintln(p.out, prompts.Welcome(p.flow))
	p.report(session, p.controller.Begin(ctx, session))

	for !session.Terminal() {
		if ctx.Err() != nil {
			p.controller.EndEarly(session)
			break
		}

		switch session.State {
		case interview.NotStarted, interview.AwaitingQuestion:
			line, ok := p.ask(ctx, fmt.Sprintf("Type %q to try again or %q to stop", commandRetry, commandEnd))
			switch {
			case !ok || line == commandEnd:
				p.controller.EndEarly(session)
			case line == commandRetry:
				p.report(session, p.controller.FetchQuestion(ctx, session))
			}

		default:
			fmt.Fprintln(p.out, prompts.ForSession(session, p.flow))
			line, ok := p.ask(ctx, "Audio file path (empty to skip)")
			switch {
			case !ok || line == commandEnd:
				p.controller.EndEarly(session)
			case line == "":
				p.report(session, p.controller.Skip(ctx, session))
			default:
				p.report(session, p.controller.Record(ctx, session, audio.FileCapturer{Path: line}))
			}
		}
	}

	fmt.Fprint(p.out, report.RenderSummary(session.Summary(), session.EndedEarly))
	return nil
}

// ask печатает подсказку и ждет строку; false на EOF или отмене ctx
func (p *practice) ask(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprintf(p.out, "%s> ", prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", false
	case line, ok := <-p.in:
		if !ok {
			fmt.Fprintln(p.out)
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

func (p *practice) report(s *interview.Session, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, interview.ErrInvalidTransition), errors.Is(err, interview.ErrCompleted):
		fmt.Fprintln(p.out, "⚠️ This action is not available right now.")
	case errors.Is(err, interview.ErrSkipDisabled):
		fmt.Fprintln(p.out, "⚠️ Skipping is not available in this interview. Please record an answer.")
	case s.LastError != "":
		fmt.Fprintf(p.out, "⚠️ %s\n", s.LastError)
	default:
		fmt.Fprintf(p.out, "⚠️ %s\n", backend.UserMessage(err))
	}
}
