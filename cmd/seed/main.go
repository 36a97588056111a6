// Command main runs the database seeder for Alcove.
package main

import (
	"flag"
	"log"

	"alcove/internal/config"
	"alcove/internal/database"
	"alcove/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 40, "Number of posts to create")
	commentsPerPost := flag.Int("comments", 12, "Approximate number of comments per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, ~%d comments each, clean=%v\n",
		*numUsers, *numPosts, *commentsPerPost, *shouldClean)

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

	if err := seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *commentsPerPost,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: Password123!")
}
