package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"quickride/internal/catalog"
	"quickride/internal/shared/config"
	"quickride/internal/shared/database"
	"quickride/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting QuickRide Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"tickets",
		"passengers",
		"bookings",
		"trip_inventories",
		"prices",
		"bus_offerings",
		"route_legs",
		"cities",
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

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedCities(); err != nil {
		return fmt.Errorf("failed to seed cities: %w", err)
	}

	legIDs, err := s.SeedRouteLegs()
	if err != nil {
		return fmt.Errorf("failed to seed route legs: %w", err)
	}

	if err := s.SeedBuses(); err != nil {
		return fmt.Errorf("failed to seed buses: %w", err)
	}

	if err := s.SeedPrices(legIDs); err != nil {
		return fmt.Errorf("failed to seed prices: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates 1 admin and 2 regular users
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		name  string
		email string
		phone string
		role  users.Role
	}{
		{"Admin User", "admin@quickride.com", "+233201234567", users.RoleAdmin},
		{"Ama Mensah", "ama.mensah@gmail.com", "+233244567890", users.RoleUser},
		{"Kwame Boateng", "kwame.boateng@gmail.com", "+233209876543", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedCities creates the bookable cities
func (s *Seeder) SeedCities() error {
	fmt.Println("  🏙️ Seeding cities...")

	citiesData := []struct {
		code string
		name string
	}{
		{"accra", "Accra"},
		{"kumasi", "Kumasi"},
		{"tamale", "Tamale"},
		{"cape-coast", "Cape Coast"},
		{"tema", "Tema"},
		{"takoradi", "Takoradi"},
		{"sunyani", "Sunyani"},
		{"ho", "Ho"},
		{"bolgatanga", "Bolgatanga"},
		{"wa", "Wa"},
		{"koforidua", "Koforidua"},
		{"techiman", "Techiman"},
	}

	for _, cityData := range citiesData {
		city := catalog.City{
			Code:      cityData.code,
			Name:      cityData.name,
			CreatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&city).Error; err != nil {
			return fmt.Errorf("failed to create city %s: %w", city.Code, err)
		}

		fmt.Printf("    ✅ Created city: %s\n", city.Name)
	}

	return nil
}

// SeedRouteLegs creates directed route legs in both directions
func (s *Seeder) SeedRouteLegs() (map[string]uuid.UUID, error) {
	fmt.Println("  🛣️ Seeding route legs...")

	legIDs := make(map[string]uuid.UUID)

	pairs := []struct {
		origin   string
		dest     string
		distance float64
		duration float64
	}{
		{"accra", "kumasi", 250, 4.0},
		{"accra", "tamale", 620, 10.0},
		{"accra", "cape-coast", 145, 2.5},
		{"accra", "tema", 30, 0.75},
		{"accra", "takoradi", 230, 4.0},
		{"accra", "ho", 165, 3.0},
		{"accra", "koforidua", 85, 1.5},
		{"kumasi", "tamale", 380, 6.0},
		{"kumasi", "sunyani", 130, 2.5},
		{"kumasi", "techiman", 125, 2.0},
		{"kumasi", "takoradi", 245, 4.5},
		{"tamale", "bolgatanga", 165, 2.5},
		{"tamale", "wa", 300, 5.0},
		{"cape-coast", "takoradi", 85, 1.5},
	}

	for _, pair := range pairs {
		// Both directions share the distance and duration
		for _, direction := range []struct{ origin, dest string }{
			{pair.origin, pair.dest},
			{pair.dest, pair.origin},
		} {
			leg := catalog.RouteLeg{
				ID:            uuid.New(),
				OriginCode:    direction.origin,
				DestCode:      direction.dest,
				DistanceKm:    pair.distance,
				DurationHours: pair.duration,
				CreatedAt:     time.Now(),
				UpdatedAt:     time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&leg).Error; err != nil {
				return nil, fmt.Errorf("failed to create route leg %s: %w", leg.Key(), err)
			}

			legIDs[leg.Key()] = leg.ID
			fmt.Printf("    ✅ Created route leg: %s (%.0f km)\n", leg.Key(), leg.DistanceKm)
		}
	}

	return legIDs, nil
}

// SeedBuses creates the bus offerings with their serviced routes
func (s *Seeder) SeedBuses() error {
	fmt.Println("  🚌 Seeding buses...")

	busesData := []struct {
		operator     string
		tier         catalog.ServiceTier
		capacity     int
		pricePerSeat int64 // pesewas
		amenities    []string
		routeKeys    []string
	}{
		{
			"VIP Transport", catalog.TierVIP, 30, 6500,
			[]string{"AC", "WiFi", "Reclining Seats", "Refreshments"},
			[]string{"accra-kumasi", "kumasi-accra", "accra-takoradi", "takoradi-accra"},
		},
		{
			"STC Intercity", catalog.TierBusiness, 45, 4500,
			[]string{"AC", "WiFi", "Onboard Toilet"},
			[]string{"accra-kumasi", "kumasi-accra", "accra-tamale", "tamale-accra", "kumasi-tamale", "tamale-kumasi"},
		},
		{
			"Metro Mass Transit", catalog.TierEconomy, 55, 2500,
			[]string{"AC"},
			[]string{"accra-kumasi", "kumasi-accra", "accra-cape-coast", "cape-coast-accra", "accra-tema", "tema-accra", "accra-koforidua", "koforidua-accra"},
		},
		{
			"KPTC Express", catalog.TierBusiness, 40, 5000,
			[]string{"AC", "USB Charging"},
			[]string{"accra-cape-coast", "cape-coast-accra", "cape-coast-takoradi", "takoradi-cape-coast", "accra-takoradi", "takoradi-accra"},
		},
		{
			"Golden Express", catalog.TierVIP, 28, 7000,
			[]string{"AC", "WiFi", "Reclining Seats", "Entertainment", "Refreshments"},
			[]string{"accra-tamale", "tamale-accra", "kumasi-tamale", "tamale-kumasi"},
		},
		{
			"Northern Star", catalog.TierBusiness, 35, 5500,
			[]string{"AC", "WiFi"},
			[]string{"tamale-bolgatanga", "bolgatanga-tamale", "tamale-wa", "wa-tamale"},
		},
		{
			"Volta Express", catalog.TierEconomy, 50, 3000,
			[]string{"AC"},
			[]string{"accra-ho", "ho-accra"},
		},
		{
			"Central Connect", catalog.TierBusiness, 42, 4800,
			[]string{"AC", "USB Charging", "WiFi"},
			[]string{"kumasi-sunyani", "sunyani-kumasi", "kumasi-techiman", "techiman-kumasi"},
		},
	}

	for _, busData := range busesData {
		bus := catalog.BusOffering{
			ID:           uuid.New(),
			Operator:     busData.operator,
			Tier:         busData.tier,
			Capacity:     busData.capacity,
			Amenities:    busData.amenities,
			PricePerSeat: busData.pricePerSeat,
			RouteKeys:    busData.routeKeys,
			Active:       true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&bus).Error; err != nil {
			return fmt.Errorf("failed to create bus %s: %w", bus.Operator, err)
		}

		fmt.Printf("    ✅ Created bus: %s (%s, %d seats)\n", bus.Operator, bus.Tier, bus.Capacity)
	}

	return nil
}

// SeedPrices creates per-leg fare overrides for the long routes
func (s *Seeder) SeedPrices(legIDs map[string]uuid.UUID) error {
	fmt.Println("  💰 Seeding fare overrides...")

	pricesData := []struct {
		legKey       string
		tier         catalog.ServiceTier
		pricePerSeat int64 // pesewas
	}{
		{"accra-tamale", catalog.TierBusiness, 9500},
		{"tamale-accra", catalog.TierBusiness, 9500},
		{"accra-tamale", catalog.TierVIP, 14000},
		{"tamale-accra", catalog.TierVIP, 14000},
		{"kumasi-tamale", catalog.TierBusiness, 7000},
		{"tamale-kumasi", catalog.TierBusiness, 7000},
	}

	for _, priceData := range pricesData {
		legID, ok := legIDs[priceData.legKey]
		if !ok {
			return fmt.Errorf("unknown route leg %s", priceData.legKey)
		}

		price := catalog.Price{
			ID:           uuid.New(),
			RouteLegID:   legID,
			Tier:         priceData.tier,
			PricePerSeat: priceData.pricePerSeat,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&price).Error; err != nil {
			return fmt.Errorf("failed to create price for %s: %w", priceData.legKey, err)
		}

		fmt.Printf("    ✅ Created fare override: %s %s = %d pesewas\n",
			priceData.legKey, priceData.tier, priceData.pricePerSeat)
	}

	return nil
}
