// Command main runs the database seeder for OpenEyes.
package main

import (
	"flag"
	"log"

	"openeyes/internal/config"
	"openeyes/internal/database"
	"openeyes/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dataset := flag.String("dataset", "", "Optional curated dataset YAML to apply after seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	if *dataset != "" {
		ds, err := seed.LoadDataset(*dataset)
		if err != nil {
			log.Fatalf("❌ Dataset load failed: %v", err)
		}
		if err := s.ApplyDataset(ds); err != nil {
			log.Fatalf("❌ Dataset apply failed: %v", err)
		}
		log.Printf("✓ curated dataset %s applied", *dataset)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All generated users have the password: password123")
}
