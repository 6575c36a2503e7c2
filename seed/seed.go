// Package seed fills the database with plausible demo data.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/store"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	// Count scales every entity family.
	Count int
	// BatchSize is how many records go in between progress reports.
	BatchSize int
	// Clear wipes existing data before seeding.
	Clear bool
	// DryRun reports what would be created without touching the database.
	DryRun bool
}

type Seeder struct {
	store *store.Store
	rng   *rand.Rand
	opts  Options
}

func New(s *store.Store, opts Options) *Seeder {
	if opts.Count <= 0 {
		opts.Count = 20
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Seeder{
		store: s,
		rng:   rand.New(rand.NewSource(42)),
		opts:  opts,
	}
}

var (
	firstNames = []string{"Ada", "Blake", "Carmen", "Dev", "Elena", "Femi", "Grace", "Hiro", "Iris", "Jonas", "Kira", "Liam", "Mona", "Noor", "Otto", "Priya", "Quinn", "Rosa", "Sam", "Tova"}
	lastNames  = []string{"Avery", "Bennett", "Castillo", "Duarte", "Eze", "Fontaine", "Gupta", "Haines", "Ito", "Jensen", "Kovacs", "Lindqvist", "Moreau", "Nakamura", "Okafor", "Petrov", "Reyes", "Silva", "Tanaka", "Ueda"}
	genreNames = []string{"Fiction", "Mystery", "Science Fiction", "Fantasy", "Romance", "Biography", "History", "Poetry", "Horror", "Essays"}
	bookTitles = []string{"The Silent Harbor", "Paper Constellations", "A Winter of Glass", "The Cartographer's Daughter", "Midnight at the Archive", "The Last Orchard", "Salt and Smoke", "The Clockmaker's Secret", "Under a Borrowed Sky", "The Lighthouse Ledger"}
	clubNames  = []string{"Night Owls Book Club", "First Chapter Society", "The Margin Notes", "Slow Readers Collective", "Spine Breakers", "The Epilogue Club", "Chapter & Verse", "The Unreliable Narrators"}
	categories = []string{"fiction", "mystery", "scifi", "classics", "nonfiction"}
)

// Run seeds every entity family in dependency order.
func (s *Seeder) Run() error {
	if s.opts.DryRun {
		log.Info("dry run, nothing will be written",
			zap.Int("users", s.opts.Count),
			zap.Int("books", s.opts.Count),
			zap.Int("clubs", len(clubNames)))
		return nil
	}

	if s.opts.Clear {
		if err := s.clear(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers()
	if err != nil {
		return err
	}
	books, err := s.seedCatalog()
	if err != nil {
		return err
	}
	clubs, err := s.seedClubs(users)
	if err != nil {
		return err
	}
	if err := s.seedSessions(clubs, books); err != nil {
		return err
	}
	if err := s.seedReviews(users, books); err != nil {
		return err
	}
	if err := s.seedProgress(users, books); err != nil {
		return err
	}
	if err := s.seedDiscussions(clubs); err != nil {
		return err
	}
	if err := s.seedFollows(users); err != nil {
		return err
	}
	log.Info("seeding complete",
		zap.Int("users", len(users)),
		zap.Int("books", len(books)),
		zap.Int("clubs", len(clubs)))
	return nil
}

func (s *Seeder) clear() error {
	log.Warn("clearing existing data")
	return s.store.Clear()
}

func (s *Seeder) seedUsers() ([]*model.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, s.opts.Count)
	for i := 0; i < s.opts.Count; i++ {
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		username := fmt.Sprintf("%s_%s_%d", first, last, i)

		role := model.RoleUser
		if i == 0 {
			role = model.RoleHost
		}
		user, err := s.store.CreateUser(&model.User{
			Username:     username,
			Role:         role,
			Email:        fmt.Sprintf("%s%d@example.com", first, i),
			Nickname:     first + " " + last,
			PasswordHash: string(passwordHash),
		})
		if err != nil {
			if errs.Is(err, errs.KindConflict) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
		if len(users)%s.opts.BatchSize == 0 {
			log.Info("seeded users", zap.Int("count", len(users)))
		}
	}
	return users, nil
}

func (s *Seeder) seedCatalog() ([]*model.Book, error) {
	genres := make([]*model.Genre, 0, len(genreNames))
	for _, name := range genreNames {
		genre, err := s.store.GetOrCreateGenre(name)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}

	books := make([]*model.Book, 0, s.opts.Count)
	for i := 0; i < s.opts.Count; i++ {
		author, err := s.store.GetOrCreateAuthor(
			firstNames[s.rng.Intn(len(firstNames))],
			lastNames[s.rng.Intn(len(lastNames))],
		)
		if err != nil {
			return nil, err
		}

		title := bookTitles[s.rng.Intn(len(bookTitles))]
		genre := genres[s.rng.Intn(len(genres))]
		create := &model.BookCreateRequest{
			Title:           fmt.Sprintf("%s, Vol. %d", title, i+1),
			ISBN:            fmt.Sprintf("9780000%06d", i),
			Description:     "A seeded book for local development.",
			PublicationDate: fmt.Sprintf("%d-06-01", 1990+s.rng.Intn(35)),
			Publisher:       "Seed House",
			PageCount:       180 + s.rng.Intn(400),
			AuthorIDs:       []int32{author.ID},
			GenreIDs:        []int32{genre.ID},
		}
		// Every other book pretends to come from an external catalog so the
		// import paths have data to chew on.
		if i%2 == 0 {
			create.ExternalID = uuid.NewString()
			create.Source = model.SourceOpenLibrary
		}
		book, err := s.store.CreateBook(create)
		if err != nil {
			if errs.Is(err, errs.KindConflict) {
				continue
			}
			return nil, err
		}
		books = append(books, book)
		if len(books)%s.opts.BatchSize == 0 {
			log.Info("seeded books", zap.Int("count", len(books)))
		}
	}
	return books, nil
}

func (s *Seeder) seedClubs(users []*model.User) ([]*model.Club, error) {
	if len(users) == 0 {
		return nil, nil
	}

	clubs := make([]*model.Club, 0, len(clubNames))
	for i, name := range clubNames {
		creator := users[s.rng.Intn(len(users))]
		club, err := s.store.CreateClub(creator.ID, &model.ClubCreateRequest{
			Name:             name,
			Description:      "A seeded club for local development.",
			Category:         categories[s.rng.Intn(len(categories))],
			IsPrivate:        i%4 == 3,
			MaxMembers:       model.MinClubMembers + s.rng.Intn(60),
			MeetingFrequency: "monthly",
		})
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)

		// A handful of members per club, capacity permitting.
		for j := 0; j < 5 && j < len(users); j++ {
			member := users[s.rng.Intn(len(users))]
			if _, err := s.store.JoinClub(member.ID, club.ID); err != nil {
				// Full, private and duplicate joins are all expected here.
				continue
			}
		}
	}
	return clubs, nil
}

func (s *Seeder) seedSessions(clubs []*model.Club, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}
	for _, club := range clubs {
		book := books[s.rng.Intn(len(books))]
		month := 1 + s.rng.Intn(12)
		_, err := s.store.CreateReadingSession(club.ID, &model.SessionCreateRequest{
			BookID:    book.ID,
			StartDate: fmt.Sprintf("2026-%02d-01", month),
			EndDate:   fmt.Sprintf("2026-%02d-28", month),
			Notes:     "Seeded reading session.",
		})
		if err != nil && !errs.Is(err, errs.KindConflict) {
			return err
		}
	}
	return nil
}

// seedReviews hands out ratings on a bell curve centered at 3.5 so the
// seeded catalog looks like real review data rather than uniform noise.
func (s *Seeder) seedReviews(users []*model.User, books []*model.Book) error {
	count := 0
	for _, user := range users {
		for i := 0; i < 3 && i < len(books); i++ {
			book := books[s.rng.Intn(len(books))]
			_, err := s.store.CreateReview(user.ID, &model.ReviewCreateRequest{
				BookID:  book.ID,
				Rating:  s.bellCurveRating(),
				Title:   "Seeded review",
				Content: "Generated while seeding the database.",
			})
			if err != nil {
				if errs.Is(err, errs.KindConflict) {
					continue
				}
				return err
			}
			count++
			if count%s.opts.BatchSize == 0 {
				log.Info("seeded reviews", zap.Int("count", count))
			}
		}
	}
	return nil
}

func (s *Seeder) bellCurveRating() int {
	rating := int(s.rng.NormFloat64()*0.8 + 3.5)
	if rating < model.MinRating {
		rating = model.MinRating
	}
	if rating > model.MaxRating {
		rating = model.MaxRating
	}
	return rating
}

func (s *Seeder) seedProgress(users []*model.User, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}
	for i, user := range users {
		if i%2 == 1 {
			continue
		}
		book := books[s.rng.Intn(len(books))]
		page := 1 + s.rng.Intn(200)
		if _, err := s.store.UpsertReadingProgress(user.ID, &model.ProgressUpdateRequest{
			BookID:      book.ID,
			CurrentPage: &page,
		}); err != nil {
			return err
		}
	}
	return nil
}

var discussionTitles = []string{
	"Introduce yourself",
	"What did everyone think of the opening chapters?",
	"Favorite quote so far",
	"Predictions for the ending",
}

func (s *Seeder) seedDiscussions(clubs []*model.Club) error {
	for _, club := range clubs {
		members, err := s.store.ListMemberships(&model.FindMembership{ClubID: &club.ID, ActiveOnly: true})
		if err != nil {
			return err
		}
		if len(members) == 0 {
			continue
		}

		author := members[s.rng.Intn(len(members))]
		discussion, err := s.store.CreateDiscussion(club.ID, author.UserID, &model.DiscussionCreateRequest{
			Title:   discussionTitles[s.rng.Intn(len(discussionTitles))],
			Content: "Seeded discussion.",
		})
		if err != nil {
			return err
		}

		for i := 0; i < 2 && i < len(members); i++ {
			replier := members[s.rng.Intn(len(members))]
			if _, err := s.store.CreateDiscussionReply(discussion.ID, replier.UserID, &model.ReplyCreateRequest{
				Content: "Seeded reply.",
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedFollows(users []*model.User) error {
	for _, user := range users {
		for i := 0; i < 3 && i < len(users); i++ {
			target := users[s.rng.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			if _, err := s.store.Follow(user.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
