package store

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"
)

type Store struct {
	db    *sql.DB
	mutex sync.Mutex

	UserCache          sync.Map // map[int32]*model.User
	SystemSettingCache sync.Map // map[string]*model.SystemSetting
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() {
	s.db.Close()
}

// Clear wipes all domain data. System settings and migration history survive,
// so the instance keeps its identity. Meant for the seed command only.
func (s *Store) Clear() error {
	// Children before parents; the cascades would cover most of it but an
	// explicit order does not depend on them.
	tables := []string{
		"book_list_book", "book_list",
		"discussion_reply", "discussion",
		"recommendation", "reading_progress", "review", "reading_session",
		"membership", "club",
		"book_author", "book_genre", "book", "author", "genre",
		"follow", "user",
	}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return errors.Wrapf(err, "failed to clear table %s", table)
		}
	}
	s.UserCache = sync.Map{}
	return nil
}
