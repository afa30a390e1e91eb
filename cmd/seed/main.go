package main

import (
	"fmt"
	"log"
	"time"

	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/config"
	"seatify/internal/shared/database"
	"seatify/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Seatify Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"attendance_events",
		"bookings",
		"seats",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll populates users, events and their seat maps
func (s *Seeder) SeedAll() error {
	if err := s.seedUsers(); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if err := s.seedEvents(); err != nil {
		return fmt.Errorf("seeding events: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers() error {
	seedUsers := []users.User{
		{Email: "admin@seatify.com", FullName: "Seatify Admin", Role: users.RoleAdmin},
		{Email: "alice@example.com", FullName: "Alice Johnson", Role: users.RoleUser},
		{Email: "bob@example.com", FullName: "Bob Martinez", Role: users.RoleUser},
		{Email: "carol@example.com", FullName: "Carol Chen", Role: users.RoleUser},
		{Email: "dave@example.com", FullName: "Dave Okafor", Role: users.RoleUser},
	}

	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return err
		}
	}
	fmt.Printf("  Created %d users\n", len(seedUsers))
	return nil
}

func (s *Seeder) seedEvents() error {
	now := time.Now()

	seedEvents := []struct {
		event events.Event
		rows  []string
		cols  int
	}{
		{
			event: events.Event{
				Name:      "Go Conference 2026",
				Location:  "Convention Center, Hall A",
				StartTime: now.Add(30 * 24 * time.Hour),
				EndTime:   now.Add(30*24*time.Hour + 8*time.Hour),
				Status:    events.StatusUpcoming,
			},
			rows: []string{"A", "B", "C", "D", "E"},
			cols: 10,
		},
		{
			event: events.Event{
				Name:      "Jazz Night",
				Location:  "Blue Note Club",
				StartTime: now.Add(7 * 24 * time.Hour),
				EndTime:   now.Add(7*24*time.Hour + 3*time.Hour),
				Status:    events.StatusUpcoming,
			},
			rows: []string{"A", "B", "C"},
			cols: 8,
		},
		{
			event: events.Event{
				Name:      "Startup Pitch Day",
				Location:  "Innovation Hub",
				StartTime: now.Add(-2 * time.Hour),
				EndTime:   now.Add(4 * time.Hour),
				Status:    events.StatusOngoing,
			},
			rows: []string{"A", "B"},
			cols: 12,
		},
		{
			event: events.Event{
				Name:      "Winter Gala",
				Location:  "Grand Hotel Ballroom",
				StartTime: now.Add(-10 * 24 * time.Hour),
				EndTime:   now.Add(-10*24*time.Hour + 5*time.Hour),
				Status:    events.StatusFinished,
			},
			rows: []string{"A", "B", "C", "D"},
			cols: 6,
		},
	}

	for i := range seedEvents {
		se := &seedEvents[i]
		se.event.Capacity = len(se.rows) * se.cols

		if err := s.db.PostgreSQL.Create(&se.event).Error; err != nil {
			return err
		}

		eventSeats := make([]seats.Seat, 0, se.event.Capacity)
		for _, row := range se.rows {
			for n := 1; n <= se.cols; n++ {
				eventSeats = append(eventSeats, seats.Seat{
					EventID:     se.event.ID,
					Row:         row,
					Number:      n,
					IsAvailable: true,
				})
			}
		}
		if err := s.db.PostgreSQL.CreateInBatches(eventSeats, 100).Error; err != nil {
			return err
		}

		fmt.Printf("  Created event %q with %d seats\n", se.event.Name, len(eventSeats))
	}

	return nil
}
