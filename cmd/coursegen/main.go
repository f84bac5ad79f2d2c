// Command coursegen generates a course curriculum with the configured LLM:
// an outline of modules and lessons, optionally filled with lesson prose.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	aiAdapters "learnhub-checkout/internal/infra/adapters/ai"
	pg "learnhub-checkout/internal/infra/db/postgres"
	"learnhub-checkout/internal/infra/logging"
	"learnhub-checkout/internal/infra/worker"
	"learnhub-checkout/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	courseID := flag.String("course", "", "course id to generate the outline for")
	title := flag.String("title", "", "course title (creates the course row if missing)")
	topic := flag.String("topic", "", "curriculum topic")
	modules := flag.Int("modules", 5, "number of modules")
	lessons := flag.Int("lessons", 4, "lessons per module")
	fill := flag.Bool("fill", false, "also generate lesson content")
	noop := flag.Bool("noop", false, "use the canned generator instead of a live provider")
	flag.Parse()

	if *courseID == "" || *topic == "" {
		fmt.Fprintln(os.Stderr, "usage: coursegen -course <id> -topic <topic> [-title <title>] [-modules N] [-lessons N] [-fill]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool := pg.MustConnectPostgres(cfg.Database)
	defer pool.Close()
	courseRepo := pg.NewCourseRepo(pool)

	// Create the course row on demand so the outline has something to hang off.
	if _, err := courseRepo.FindByID(ctx, *courseID); err != nil {
		if *title == "" {
			log.Fatalf("course %s not found; pass -title to create it", *courseID)
		}
		course := &model.Course{ID: *courseID, Title: *title, CreatedAt: time.Now()}
		if err := courseRepo.Save(ctx, course); err != nil {
			log.Fatalf("create course: %v", err)
		}
		fmt.Printf("created course %s (%q)\n", *courseID, *title)
	}

	gen := buildGenerator(ctx, cfg, *noop)
	genUC := usecase.NewCourseGenUseCase(gen, courseRepo, cfg.AI.MaxOutputTokens, cfg.AI.PromptBudget, logger)

	outline, err := genUC.GenerateOutline(ctx, *courseID, *topic, *modules, *lessons)
	if err != nil {
		log.Fatalf("generate outline: %v", err)
	}
	fmt.Printf("outline generated: %d modules via %s\n", len(outline.Modules), gen.Provider())
	for _, m := range outline.Modules {
		fmt.Printf("  %s (%d lessons)\n", m.Title, len(m.Lessons))
	}

	if !*fill {
		return
	}

	pool2 := worker.NewPool(cfg.Scheduler.Workers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	filler := worker.NewOutlineFiller(gen, courseRepo, pool2, cfg.AI.MaxOutputTokens, logger)
	if err := filler.Fill(ctx, outline); err != nil {
		log.Fatalf("fill lessons: %v", err)
	}
	fmt.Println("✅ Lesson content generated.")
}

// buildGenerator picks the provider the same way the checkout app does:
// OpenAI first, Gemini second, canned output when nothing is configured.
func buildGenerator(ctx context.Context, cfg *config.Config, forceNoop bool) adapter.ContentGenerator {
	if forceNoop {
		return aiAdapters.NewNoopGenerator()
	}
	if cfg.AI.OpenAIKey != "" {
		gen, err := aiAdapters.NewOpenAIGenerator(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("openai generator: %v", err)
		}
		return gen
	}
	if cfg.AI.GeminiKey != "" {
		gen, err := aiAdapters.NewGeminiGenerator(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("gemini generator: %v", err)
		}
		return gen
	}
	log.Println("no AI provider configured; using canned generator")
	return aiAdapters.NewNoopGenerator()
}
