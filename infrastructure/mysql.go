package infrastructure

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/cyffeer/launchpad-jia/domain"
)

func NewMySQLConnection() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logrus.Fatal("DB_DSN is not set in environment")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	// Auto migrate schema
	err = db.AutoMigrate(
		&domain.Career{},
		&domain.Application{},
		&domain.CandidateCV{},
		&domain.InterviewHistory{},
		&domain.OrgSettings{},
	)
	if err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	seedGlobalSettings(db)

	logrus.Info("✅ Connected to MySQL and migrated schema")
	return db
}

// seedGlobalSettings makes sure the org-wide screening instructions row
// exists; screening refuses to run without it.
func seedGlobalSettings(db *gorm.DB) {
	var count int64
	if err := db.Model(&domain.OrgSettings{}).
		Where("name = ?", domain.GlobalSettingsName).
		Count(&count).Error; err != nil {
		logrus.Fatalf("failed to count settings: %v", err)
	}
	if count > 0 {
		return
	}

	settings := domain.OrgSettings{
		Name: domain.GlobalSettingsName,
		CVScreeningPrompt: "- compare the applicant's skills and experience against the job requirements\n" +
			"- weigh recent, relevant experience higher than older or unrelated experience\n" +
			"- consider education and certifications only where the job asks for them",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&settings).Error; err != nil {
		logrus.Fatalf("failed to seed global settings: %v", err)
	}

	logrus.Info("✅ Seeded global screening settings")
}
