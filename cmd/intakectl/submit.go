package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/facebookgo/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-intake/internal/domain"
	"resume-intake/internal/intake"
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Run a local intake session for a file and print each state transition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lg, err := newLogger(cmd)
		if err != nil {
			return fmt.Errorf("creating a logger: %w", err)
		}
		defer func() { _ = lg.Sync() }()

		delay, _ := cmd.Flags().GetDuration("delay")
		f, err := candidateFromPath(args[0])
		if err != nil {
			return err
		}
		st, err := submitFile(cmd.Context(), cmd.OutOrStdout(), clock.New(), lg, delay, f)
		if err != nil {
			return err
		}
		if st.Status == domain.StatusRejected {
			return errRejected
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().Duration("delay", intake.DefaultCompletionDelay, "simulated upload completion delay")
}

func submitFile(ctx context.Context, out io.Writer, clk clock.Clock, lg *zap.Logger, delay time.Duration, f domain.CandidateFile) (domain.IntakeState, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan domain.CandidateFile, 1)
	sess := intake.NewSession("cli", intake.Options{
		Clock:           clk,
		CompletionDelay: delay,
		Logger:          lg,
		OnComplete: func(_ string, file domain.CandidateFile) {
			done <- file
		},
	})
	defer sess.Close()

	printState(out, sess.State())
	st := sess.Submit(f)
	printState(out, st)
	if st.Status != domain.StatusPending {
		return st, nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return sess.State(), ctx.Err()
	}
	st = sess.State()
	printState(out, st)
	return st, nil
}

func printState(out io.Writer, st domain.IntakeState) {
	switch st.Status {
	case domain.StatusRejected:
		fmt.Fprintf(out, "%s\t%s\t%s\n", st.Status, st.Reason, st.Reason.Message())
	case domain.StatusPending, domain.StatusComplete:
		fmt.Fprintf(out, "%s\t%s\t%s\t%d bytes\n", st.Status, st.File.Name, st.File.MediaType, st.File.ByteSize)
	default:
		fmt.Fprintf(out, "%s\n", st.Status)
	}
}
