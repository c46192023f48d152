// Command researchctl submits a research run to the worker's task queue and
// optionally waits for the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/briefwright/orchestrator/internal/config"
	"github.com/briefwright/orchestrator/internal/models"
	"github.com/briefwright/orchestrator/internal/workflows"
)

// briefFile is the on-disk form of a research brief.
type briefFile struct {
	CompanyName    string   `yaml:"company_name"`
	MainQuestion   string   `yaml:"main_question"`
	SeedURLs       []string `yaml:"seed_urls"`
	AllowedDomains []string `yaml:"allowed_domains"`
	Constraints    []string `yaml:"constraints"`
}

func main() {
	briefPath := flag.String("brief", "", "path to a YAML research brief (required)")
	wait := flag.Bool("wait", false, "block until the run completes and print the report")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if *briefPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*briefPath)
	if err != nil {
		logger.Fatal("Failed to read brief", zap.Error(err))
	}
	var bf briefFile
	if err := yaml.Unmarshal(raw, &bf); err != nil {
		logger.Fatal("Failed to parse brief", zap.Error(err))
	}
	if bf.CompanyName == "" || len(bf.SeedURLs) == 0 {
		logger.Fatal("Brief must set company_name and at least one seed URL")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer c.Close()

	runID := "run-" + uuid.NewString()
	input := workflows.ResearchWorkflowInput{
		RunID: runID,
		Brief: models.ResearchBrief{
			CompanyName:    bf.CompanyName,
			MainQuestion:   bf.MainQuestion,
			SeedURLs:       bf.SeedURLs,
			AllowedDomains: bf.AllowedDomains,
			Constraints:    bf.Constraints,
		},
	}

	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:        runID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.CompanyResearchWorkflow, input)
	if err != nil {
		logger.Fatal("Failed to start research run", zap.Error(err))
	}

	logger.Info("Research run started",
		zap.String("run_id", runID),
		zap.String("workflow_id", run.GetID()),
		zap.String("company", bf.CompanyName),
	)

	if !*wait {
		return
	}

	var state models.ResearchState
	if err := run.Get(context.Background(), &state); err != nil {
		logger.Fatal("Research run failed", zap.Error(err))
	}
	fmt.Println(state.ReportMarkdown)
}
