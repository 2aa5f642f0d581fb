package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/sitedata"
	"github.com/treyfatech/sitecms/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap admin and default site content",
	Long:  `Create the bootstrap admin account and the default site data sections if they do not exist yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		adminEmail := "admin@treyfa-tech.com"
		adminPassword := "admin123"
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		var exists int
		row := gormDB.Raw("SELECT 1 FROM users WHERE username = ?", user.BootstrapUsername).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("bootstrap admin already exists:", user.BootstrapUsername)
		} else {
			err := gormDB.Exec(
				"INSERT INTO users (username, email, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				user.BootstrapUsername, adminEmail, string(hash), auth.RoleSuperAdmin,
			).Error
			if err != nil {
				log.Fatalf("failed to insert bootstrap admin: %v", err)
			}
			fmt.Println("Seeded bootstrap admin:", user.BootstrapUsername)
		}

		// Default site content, skipping sections that already exist so
		// edits made through the API survive reseeding.
		for section, data := range sitedata.DefaultSections {
			var exists int
			row := gormDB.Raw("SELECT 1 FROM site_data WHERE section = ?", section).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			err := gormDB.Exec(
				"INSERT INTO site_data (section, data, created_at, updated_at) VALUES (?, ?, now(), now())",
				section, string(data),
			).Error
			if err != nil {
				log.Fatalf("failed to seed site data section %s: %v", section, err)
			}
			fmt.Printf("Seeded site data section: %s\n", section)
		}

		fmt.Println("Seeding complete")
	},
}
