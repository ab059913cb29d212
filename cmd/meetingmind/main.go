package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/pipeline"
	"github.com/meetingmind-ai/meetingmind/internal/roster"
	"github.com/meetingmind-ai/meetingmind/internal/speech"
	"github.com/meetingmind-ai/meetingmind/internal/store"
)

func main() {
	logger := common.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Debug("meetingmind: .env file not loaded", "error", err)
	}

	audioPath := flag.String("audio", "", "path to a recorded meeting audio file")
	transcriptPath := flag.String("transcript", "", "path to a transcript text or JSON payload file")
	participantsPath := flag.String("participants", "", "path to the participant roster JSON file")
	quarterID := flag.String("quarter", "", "quarter identifier for produced artifacts")
	numWeeks := flag.Int("weeks", 12, "planning horizon in weeks")
	optionsPath := flag.String("options", "", "optional YAML file with pipeline options")
	dbPath := flag.String("db", "", "SQLite path for artifact persistence (empty to print JSON instead)")
	flag.Parse()

	if err := run(ctx, *audioPath, *transcriptPath, *participantsPath, *quarterID, *numWeeks, *optionsPath, *dbPath); err != nil {
		logger.Error("meetingmind: run failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, audioPath, transcriptPath, participantsPath, quarterID string, numWeeks int, optionsPath, dbPath string) error {
	logger := common.Logger()

	participants, err := loadParticipants(participantsPath)
	if err != nil {
		return err
	}

	opts, err := pipeline.LoadOptions(optionsPath)
	if err != nil {
		return err
	}

	provider := llm.NewProvider()
	pipe := pipeline.New(provider, opts)

	if strings.TrimSpace(audioPath) != "" {
		cfg := speech.LoadConfig()
		if len(opts.RestrictedTerms) > 0 {
			cfg.RestrictedTerms = opts.RestrictedTerms
		}
		client := speech.NewClient(cfg)
		if !client.Available(ctx) {
			return fmt.Errorf("speech service unreachable at %s", cfg.Endpoint)
		}
		pipe = pipe.WithTranscriber(client)
	}

	if strings.TrimSpace(dbPath) != "" {
		storeCfg := store.LoadConfig()
		storeCfg.Path = dbPath
		artifactStore, err := store.Open(storeCfg)
		if err != nil {
			return err
		}
		defer artifactStore.Close()
		pipe = pipe.WithPersister(artifactStore)
	}

	input := pipeline.Input{
		AudioPath: strings.TrimSpace(audioPath),
		NumWeeks:  numWeeks,
		QuarterID: strings.TrimSpace(quarterID),
		Roster:    participants,
	}
	if input.AudioPath == "" {
		payload, err := loadTranscriptPayload(transcriptPath)
		if err != nil {
			return err
		}
		input.Payload = payload
	}

	report, err := pipe.Run(ctx, input)
	if err != nil {
		return err
	}
	if report.Skipped != "" {
		logger.Warn("meetingmind: pipeline skipped", "reason", report.Skipped)
	}

	if strings.TrimSpace(dbPath) == "" {
		encoded, err := json.MarshalIndent(report.Batch, "", "  ")
		if err != nil {
			return fmt.Errorf("encode batch: %w", err)
		}
		fmt.Println(string(encoded))
	}
	for _, warning := range report.Warnings {
		logger.Warn("meetingmind: run warning", "warning", warning)
	}
	return nil
}

func loadParticipants(path string) ([]roster.Participant, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("participants file required (-participants)")
	}
	payload, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("read participants: %w", err)
	}
	var participants []roster.Participant
	if err := json.Unmarshal(payload, &participants); err != nil {
		return nil, fmt.Errorf("parse participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("participants file is empty")
	}
	return participants, nil
}

// loadTranscriptPayload accepts either a JSON document carrying one of the
// recognized transcript keys or a plain text file.
func loadTranscriptPayload(path string) (map[string]any, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("either -audio or -transcript is required")
	}
	payload, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err == nil {
		return doc, nil
	}
	return map[string]any{"text": string(payload)}, nil
}
