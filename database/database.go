package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timebill/models"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	// Auto migrate the schema
	return DB.AutoMigrate(
		&models.Customer{},
		&models.Project{},
		&models.Task{},
		&models.User{},
		&models.TimeEntry{},
		&models.Invoice{},
		&models.InvoiceRun{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDemo provisions a small billable data set for local development. It
// is a no-op once any customer exists.
func SeedDemo() error {
	var count int64
	DB.Model(&models.Customer{}).Count(&count)
	if count > 0 {
		return nil
	}

	rate := decimal.NewFromInt(70)
	customer := models.Customer{
		Name:         "Acme Fabrication",
		ShortCode:    "AFA",
		DefaultRate:  decimal.NewFromInt(60),
		PaymentTerms: "Net 30",
	}
	project := models.Project{Name: "Website Relaunch", Rate: &rate}
	task := models.Task{Name: "Development"}
	user := models.User{FirstName: "Dana", LastName: "Fields"}

	return DB.Transaction(func(tx *gorm.DB) error {
		for _, record := range []interface{}{&customer, &project, &task, &user} {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		start := time.Now().AddDate(0, 0, -7).Truncate(time.Hour)
		entries := []models.TimeEntry{
			{Description: "Set up deployment pipeline", Duration: 120, Date: start, StartTime: start,
				CustomerID: customer.ID, ProjectID: project.ID, TaskID: task.ID, UserID: user.ID},
			{Description: "Landing page implementation and review", Duration: 180, Date: start.AddDate(0, 0, 1), StartTime: start.AddDate(0, 0, 1),
				CustomerID: customer.ID, ProjectID: project.ID, TaskID: task.ID, UserID: user.ID},
		}
		return tx.Create(&entries).Error
	})
}
