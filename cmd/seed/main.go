package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/database"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/slug"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email string
	name  string
	role  models.UserRole
}

type seedPost struct {
	author   string
	title    string
	content  string
	access   models.AccessLevel
	featured bool
	comments []seedComment
}

type seedComment struct {
	author  string
	content string
}

var users = []seedUser{
	{"admin@blog.local", "Site Admin", models.RoleAdmin},
	{"alice@blog.local", "Alice", models.RoleUser},
	{"bob@blog.local", "Bob", models.RoleUser},
}

var posts = []seedPost{
	{
		author:   "alice@blog.local",
		title:    "Welcome to the Blog",
		content:  "This post is visible to everyone, signed in or not.",
		access:   models.AccessPublic,
		featured: true,
		comments: []seedComment{
			{"bob@blog.local", "Great first post!"},
			{"admin@blog.local", "Welcome aboard."},
		},
	},
	{
		author:  "alice@blog.local",
		title:   "Team Roadmap",
		content: "Only signed-in members can read the roadmap.",
		access:  models.AccessInternal,
		comments: []seedComment{
			{"bob@blog.local", "Looking forward to Q3."},
		},
	},
	{
		author:  "bob@blog.local",
		title:   "Private Drafting Notes",
		content: "Only Bob and the admins can open this one.",
		access:  models.AccessPrivate,
	},
}

func main() {
	password := flag.String("password", "password123", "password for every seeded account")
	migrate := flag.Bool("migrate", false, "create tables with AutoMigrate before seeding (for sqlite)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithService("seed")
	log.SetLevel(cfg.LogLevel)

	db, err := database.NewDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if *migrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Error("Failed to migrate: %v", err)
			panic(err)
		}
	}

	if err := seedDatabase(db, *password, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase is idempotent: users are matched by email and posts by slug.
func seedDatabase(db *gorm.DB, password string, log *logger.Logger) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ids := make(map[string]string, len(users))
	for _, u := range users {
		id, err := ensureUser(db, u, string(hashed), log)
		if err != nil {
			return err
		}
		ids[u.email] = id
	}

	now := time.Now()
	for _, p := range posts {
		if err := ensurePost(db, p, ids, now, log); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(db *gorm.DB, u seedUser, hashed string, log *logger.Logger) (string, error) {
	var existing models.User
	err := db.Where("email = ?", u.email).First(&existing).Error
	if err == nil {
		log.Info("User %s already exists, skipping", u.email)
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up user %s: %w", u.email, err)
	}

	name := u.name
	user := &models.User{
		Email:           u.email,
		Name:            &name,
		Password:        hashed,
		Role:            u.role,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		return "", fmt.Errorf("failed to create user %s: %w", u.email, err)
	}

	log.Info("Created %s user: %s", u.role, u.email)
	return user.ID, nil
}

func ensurePost(db *gorm.DB, p seedPost, ids map[string]string, now time.Time, log *logger.Logger) error {
	postSlug := slug.Make(p.title)

	var count int64
	if err := db.Model(&models.Post{}).Where("slug = ?", postSlug).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up post %s: %w", postSlug, err)
	}
	if count > 0 {
		log.Info("Post %s already exists, skipping", postSlug)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		post := &models.Post{
			Slug:        postSlug,
			Title:       p.title,
			Content:     p.content,
			AccessLevel: p.access,
			Status:      models.StatusPublished,
			AuthorID:    ids[p.author],
			PublishedAt: &now,
		}
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post %s: %w", postSlug, err)
		}
		if p.featured {
			if err := tx.Model(post).UpdateColumn("featured", true).Error; err != nil {
				return fmt.Errorf("failed to feature post %s: %w", postSlug, err)
			}
		}

		for _, c := range p.comments {
			comment := &models.Comment{Content: c.content, PostID: post.ID, AuthorID: ids[c.author]}
			if err := tx.Create(comment).Error; err != nil {
				return fmt.Errorf("failed to create comment on %s: %w", postSlug, err)
			}
		}

		log.Info("Created %s post: %s", p.access, postSlug)
		return nil
	})
}
