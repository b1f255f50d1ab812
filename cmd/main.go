package main

import (
	"context"
	"errors"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cyffeer/launchpad-jia/infrastructure"
	"github.com/cyffeer/launchpad-jia/interfaces"
	"github.com/cyffeer/launchpad-jia/screening"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	// Connect DB
	db := infrastructure.NewMySQLConnection()

	// Connect RabbitMQ
	rmq := infrastructure.NewRabbitMQ()

	// Provider cascade: OpenAI primary, Gemini as whole-provider fallback.
	cascade := screening.NewCascade(
		infrastructure.NewOpenAIProvider(),
		infrastructure.NewGeminiProvider(),
	)

	store := infrastructure.NewScreeningStore(db)
	screener := screening.NewScreener(store, cascade, screening.PolicyEngine{})

	// Worker consumer: re-screens queued applications.
	rmq.ConsumeJobs(func(job infrastructure.ScreeningJob) {
		logrus.Infof("📥 Worker re-screening application %s", job.InterviewID)

		outcome, err := screener.ScreenCV(context.Background(), job.InterviewID, job.Email)
		if errors.Is(err, screening.ErrCVNotFound) {
			logrus.Warnf("application %s has no CV, marked and skipped", job.InterviewID)
			return
		}
		if err != nil {
			logrus.Errorf("❌ Worker failed to screen %s: %v", job.InterviewID, err)
			return
		}

		logrus.Infof("✅ Worker finished %s: %s", job.InterviewID, outcome.Verdict.Result)
	})

	// Setup Gin router
	router := gin.Default()
	interfaces.NewHTTPHandler(router, db, rmq, screener)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal(err)
	}
}
