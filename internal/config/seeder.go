package config

import (
	"log"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if AppConfig != nil && AppConfig.IsDev() {
		if err := s.seedSampleClubs(); err != nil {
			log.Printf("⚠️ Sample club seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@fcr-robofed.mx",
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("   Created admin user: %s", admin.Username)
	return nil
}

// seedSampleClubs creates a couple of demo clubs for local work
func (s *Seeder) seedSampleClubs() error {
	var count int64
	s.db.Model(&models.Club{}).Count(&count)
	if count > 0 {
		return nil
	}

	var admin models.User
	if err := s.db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		return err
	}

	clubs := []models.Club{
		{
			Name:          "Halcones de Monterrey",
			City:          "Monterrey",
			OwnerID:       admin.ID,
			CategoryFocus: "COMBATE",
			MaxMembers:    30,
			IsActive:      true,
		},
		{
			Name:       "Vortex GDL",
			City:       "Guadalajara",
			OwnerID:    admin.ID,
			MaxMembers: 20,
			IsActive:   true,
		},
	}

	for i := range clubs {
		if err := s.db.Create(&clubs[i]).Error; err != nil {
			return err
		}
		log.Printf("   Created club: %s", clubs[i].Name)
	}
	return nil
}

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	if err := seedRobotCategories(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedRobotCategories(db *gorm.DB) error {
	categories := []models.RobotCategory{
		{
			Code:        "SUMO",
			Name:        "Sumo",
			Description: "Robots de empuje, hasta 3 kg",
			IsActive:    true,
		},
		{
			Code:        "SEGUIDOR",
			Name:        "Seguidor de línea",
			Description: "Robots de carrera sobre pista marcada",
			IsActive:    true,
		},
		{
			Code:        "COMBATE",
			Name:        "Combate",
			Description: "Robots de combate, hasta 13.6 kg",
			IsActive:    true,
		},
		{
			Code:        "LABERINTO",
			Name:        "Laberinto",
			Description: "Micromouse, resolución de laberintos",
			IsActive:    true,
		},
		{
			Code:        "SOCCER",
			Name:        "Fútbol robótico",
			Description: "Equipos autónomos de fútbol",
			IsActive:    true,
		},
	}

	for _, c := range categories {
		var existing models.RobotCategory
		if err := db.Where("code = ?", c.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&c).Error; err != nil {
					return err
				}
				log.Printf("   Created robot_category: %s", c.Name)
			}
		}
	}
	return nil
}
