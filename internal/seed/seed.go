// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"openeyes/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// devPassword is the password every generated account gets.
const devPassword = "password123"

var regions = []string{
	"East Africa", "West Africa", "North Africa", "Middle East",
	"Eastern Europe", "Central Asia", "South Asia", "Southeast Asia",
	"Latin America", "Caribbean", "Oceania",
}

var violationTypes = []string{
	"arbitrary detention", "forced displacement", "press suppression",
	"attacks on civilians", "denial of humanitarian access", "extrajudicial killing",
}

var disasterTypes = []string{
	"earthquake", "flood", "drought", "cyclone", "wildfire", "landslide",
}

// Seeder populates the database with generated data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes generated rows in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"post_reactions", "comments", "posts", "logs",
		"violations", "un_declarations", "natural_disasters", "conflicts",
		"countries", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("✓ existing data cleared")
	return nil
}

// Run seeds accounts, dashboard records and forum content.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	countries, err := s.seedCountries()
	if err != nil {
		return fmt.Errorf("seed countries: %w", err)
	}
	log.Printf("✓ %d countries created", len(countries))

	if err := s.seedRecords(users, countries); err != nil {
		return fmt.Errorf("seed records: %w", err)
	}
	log.Println("✓ dashboard records created")

	if err := s.seedForum(users, opts.NumPosts); err != nil {
		return fmt.Errorf("seed forum: %w", err)
	}
	log.Printf("✓ %d posts created with comments and reactions", opts.NumPosts)

	return nil
}

// seedUsers creates one account per role plus a population of plain users.
func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := []models.User{
		{Username: "admin", Email: "admin@openeyes.dev", Password: string(hashed), Role: models.RoleAdmin, Status: models.UserStatusActive},
		{Username: "moderator", Email: "moderator@openeyes.dev", Password: string(hashed), Role: models.RoleModerator, Status: models.UserStatusActive},
		{Username: "reporter", Email: "reporter@openeyes.dev", Password: string(hashed), Role: models.RoleReporter, Status: models.UserStatusActive},
	}

	for i := 0; i < n; i++ {
		users = append(users, models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hashed),
			Role:     models.RoleUser,
			Status:   models.UserStatusActive,
			Title:    gofakeit.JobTitle(),
			Work:     gofakeit.Company(),
		})
	}

	if err := s.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) seedCountries() ([]models.Country, error) {
	seen := map[string]bool{}
	var countries []models.Country
	for len(countries) < 40 {
		name := gofakeit.Country()
		if seen[name] {
			continue
		}
		seen[name] = true
		countries = append(countries, models.Country{
			Name:        name,
			Population:  int64(s.rng.Intn(200_000_000) + 500_000),
			IsDemocracy: s.rng.Intn(2) == 0,
			President:   gofakeit.Name(),
			FlagEmoji:   "🏳️",
		})
	}
	if err := s.db.CreateInBatches(&countries, 100).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

func (s *Seeder) seedRecords(users []models.User, countries []models.Country) error {
	reporterID := users[2].ID

	statuses := []models.ConflictStatus{
		models.ConflictActive, models.ConflictResolved,
		models.ConflictEscalating, models.ConflictDeEscalating,
	}
	severities := []models.Severity{
		models.SeverityCritical, models.SeverityHigh,
		models.SeverityMedium, models.SeverityLow,
	}

	var conflicts []models.Conflict
	for i := 0; i < 25; i++ {
		region := regions[s.rng.Intn(len(regions))]
		conflicts = append(conflicts, models.Conflict{
			Name:            fmt.Sprintf("%s %s conflict", gofakeit.Adjective(), region),
			Region:          region,
			Status:          statuses[s.rng.Intn(len(statuses))],
			Severity:        severities[s.rng.Intn(len(severities))],
			StartDate:       gofakeit.DateRange(time.Now().AddDate(-10, 0, 0), time.Now()),
			Casualties:      s.rng.Intn(50_000),
			InvolvedParties: fmt.Sprintf("%s; %s", gofakeit.Company(), gofakeit.Company()),
			CreatedByID:     &reporterID,
		})
	}
	if err := s.db.CreateInBatches(&conflicts, 100).Error; err != nil {
		return err
	}

	var violations []models.Violation
	for i := 0; i < 30; i++ {
		violations = append(violations, models.Violation{
			Title:       gofakeit.Sentence(6),
			Type:        violationTypes[s.rng.Intn(len(violationTypes))],
			Country:     countries[s.rng.Intn(len(countries))].Name,
			Severity:    severities[s.rng.Intn(len(severities))],
			Date:        gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			CreatedByID: &reporterID,
		})
	}
	if err := s.db.CreateInBatches(&violations, 100).Error; err != nil {
		return err
	}

	declStatuses := []models.DeclarationStatus{
		models.DeclarationDraft, models.DeclarationAdopted, models.DeclarationRejected,
	}
	var declarations []models.UNDeclaration
	for i := 0; i < 15; i++ {
		declarations = append(declarations, models.UNDeclaration{
			Title:   gofakeit.Sentence(5),
			Number:  fmt.Sprintf("A/RES/%d/%d", 70+s.rng.Intn(9), 100+i),
			Status:  declStatuses[s.rng.Intn(len(declStatuses))],
			Date:    gofakeit.DateRange(time.Now().AddDate(-5, 0, 0), time.Now()),
			Summary: gofakeit.Paragraph(1, 2, 10, " "),
		})
	}
	if err := s.db.CreateInBatches(&declarations, 100).Error; err != nil {
		return err
	}

	var disasters []models.NaturalDisaster
	for i := 0; i < 20; i++ {
		dType := disasterTypes[s.rng.Intn(len(disasterTypes))]
		disaster := models.NaturalDisaster{
			Name:        fmt.Sprintf("%s %s %s", time.Now().AddDate(0, -s.rng.Intn(6), 0).Format("2006"), gofakeit.City(), dType),
			Type:        dType,
			Location:    countries[s.rng.Intn(len(countries))].Name,
			Date:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			Casualties:  s.rng.Intn(10_000),
			CreatedByID: &reporterID,
		}
		if dType == "earthquake" {
			magnitude := 4.5 + s.rng.Float64()*4
			disaster.Magnitude = &magnitude
		}
		disasters = append(disasters, disaster)
	}
	return s.db.CreateInBatches(&disasters, 100).Error
}

// seedForum creates posts in every moderation state plus comments and
// reactions on the approved ones.
func (s *Seeder) seedForum(users []models.User, numPosts int) error {
	moderationStates := []models.ModerationStatus{
		models.ModerationApproved, models.ModerationApproved, models.ModerationApproved,
		models.ModerationPending, models.ModerationRejected,
	}

	var posts []models.Post
	for i := 0; i < numPosts; i++ {
		author := users[s.rng.Intn(len(users))]
		created := gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now())
		posts = append(posts, models.Post{
			UserID:           author.ID,
			Title:            gofakeit.Sentence(6),
			Content:          gofakeit.Paragraph(2, 3, 12, "\n"),
			ModerationStatus: moderationStates[s.rng.Intn(len(moderationStates))],
			CreatedAt:        created,
			UpdatedAt:        created,
		})
	}
	if err := s.db.CreateInBatches(&posts, 100).Error; err != nil {
		return err
	}

	var comments []models.Comment
	var reactions []models.Reaction
	for _, post := range posts {
		if post.ModerationStatus != models.ModerationApproved {
			continue
		}
		for i := 0; i < s.rng.Intn(5); i++ {
			commenter := users[s.rng.Intn(len(users))]
			comments = append(comments, models.Comment{
				PostID:  post.ID,
				UserID:  commenter.ID,
				Content: gofakeit.Sentence(12),
			})
		}
		// distinct reactors per post: the unique (user, post) constraint
		// rejects duplicates
		reactors := s.rng.Perm(len(users))
		count := s.rng.Intn(len(users) / 2)
		for _, idx := range reactors[:count] {
			rType := models.ReactionLike
			if s.rng.Intn(4) == 0 {
				rType = models.ReactionDislike
			}
			reactions = append(reactions, models.Reaction{
				PostID: post.ID,
				UserID: users[idx].ID,
				Type:   rType,
			})
		}
	}

	if len(comments) > 0 {
		if err := s.db.CreateInBatches(&comments, 200).Error; err != nil {
			return err
		}
	}
	if len(reactions) > 0 {
		if err := s.db.CreateInBatches(&reactions, 200).Error; err != nil {
			return err
		}
	}
	return nil
}
