// Command seed creates the schema and inserts two weeks of demo attendance
// for local development.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/utils"
)

func main() {
	dsn := os.Getenv("DSN") // "root:development@tcp(localhost:3306)/smartlock?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	models := []interface{}{
		&model.AttendanceRecord{},
		&model.AccessRequest{},
		&model.Task{},
		&model.AuditEntry{},
	}
	for _, m := range models {
		if !db.Migrator().HasTable(m) {
			if err := db.Migrator().CreateTable(m); err != nil {
				log.Fatalf("failed to create table for %T: %v", m, err)
			}
		}
	}

	workers := []string{"worker-ana", "worker-ben", "worker-cho"}

	var records []model.AttendanceRecord
	for _, worker := range workers {
		for day := 2; day <= 13; day++ {
			date := fmt.Sprintf("2026-02-%02d", day)
			checkIn := utils.MustParseDate(date).Add(9 * time.Hour)
			if day%4 == 0 {
				checkIn = checkIn.Add(90 * time.Minute) // the occasional late day
			}
			checkOut := checkIn.Add(8*time.Hour + 30*time.Minute)
			derived := engine.DeriveAttendance(checkIn, checkOut, 0.5)

			records = append(records, model.AttendanceRecord{
				ID:           uuid.NewString(),
				UserID:       worker,
				Date:         date,
				CheckIn:      checkIn,
				CheckOut:     utils.Ptr(checkOut),
				Status:       derived.Status,
				WorkLocation: model.WorkLocationOffice,
				TotalHours:   derived.TotalHours,
				BreakTime:    0.5,
				Overtime:     derived.Overtime,
			})
		}
	}

	if err := db.CreateInBatches(records, 100).Error; err != nil {
		log.Fatalf("insert attendance: %v", err)
	}

	requests := []model.AccessRequest{
		{
			ID:        uuid.NewString(),
			UserID:    workers[0],
			Type:      model.RequestTypeRFID,
			Status:    model.RequestPending,
			Location:  "main entrance",
			Timestamp: time.Now(),
			Notes:     "lost my tag",
		},
		{
			ID:        uuid.NewString(),
			UserID:    workers[1],
			Type:      model.RequestTypeDoorUnlock,
			Status:    model.RequestPending,
			Location:  "server room",
			Timestamp: time.Now(),
		},
	}
	if err := db.Create(&requests).Error; err != nil {
		log.Fatalf("insert requests: %v", err)
	}

	log.Printf("seeded %d attendance records and %d pending requests", len(records), len(requests))
}
