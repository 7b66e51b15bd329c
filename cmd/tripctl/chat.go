package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/planner"
)

const quitCommand = "/quit"

func newChatCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip interactively with the itinerary service",
		Long: `Start a conversation with the itinerary service. Type a trip request,
answer any clarifying question, and the final itinerary is printed.
Type /quit to leave early.

Example usage:
  tripctl chat --planner-url http://localhost:8000
  tripctl chat --out itinerary.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				return errors.New("planner address is not set (use --planner-url or PLANNER_BASE_URL)")
			}
			return runChat(cmd, planner.New(baseURL, timeout), outPath)
		},
	}
	cmd.Flags().StringVar(&baseURL, "planner-url", os.Getenv("PLANNER_BASE_URL"), "itinerary service base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-request timeout (0 waits indefinitely)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the final itinerary JSON to this file")
	return cmd
}

func runChat(cmd *cobra.Command, p chat.Planner, outPath string) error {
	out := cmd.OutOrStdout()
	session := chat.NewSession(p, nil, uuid.Nil, logger(cmd))

	greeting, _ := session.Transcript().At(0)
	fmt.Fprintln(out, greeting.Content)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case quitCommand:
			return nil
		}

		reply, err := session.Send(cmd.Context(), line)
		if reply.Message.Content != "" {
			fmt.Fprintln(out, reply.Message.Content)
		}
		if err != nil {
			logger(cmd).Warn("planner request failed", "error", err)
			continue
		}
		if reply.State != chat.Completed {
			continue
		}

		if outPath != "" {
			itinerary, _ := session.Itinerary()
			if err := os.WriteFile(outPath, itinerary, 0o644); err != nil {
				return fmt.Errorf("write itinerary: %w", err)
			}
			fmt.Fprintf(out, "Itinerary saved to %s\n", outPath)
		}
		return nil
	}
}
