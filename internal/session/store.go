package session

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"photodrop/internal/model"
	"photodrop/internal/pkg/timeutil"
)

// CookieName carries the opaque session token.
const CookieName = "photodrop_session"

// Store keeps login state in process memory, keyed by an opaque token.
// Entries expire after the configured TTL; the capacity bound evicts the
// least recently used session when exceeded.
type Store struct {
	sessions *lru.LRU[string, model.Session]
	ttl      time.Duration
}

func NewStore(maxSessions int, ttl time.Duration) *Store {
	return &Store{
		sessions: lru.NewLRU[string, model.Session](maxSessions, nil, ttl),
		ttl:      ttl,
	}
}

// Create mints a fresh logged-in session for the account and returns it.
func (s *Store) Create(acc *model.Account) model.Session {
	sess := model.Session{
		Token:    uuid.NewString(),
		LoggedIn: true,
		Email:    acc.Email,
		Username: acc.Username,
		Ctime:    timeutil.NowMillis(),
	}
	s.sessions.Add(sess.Token, sess)
	return sess
}

func (s *Store) Get(token string) (model.Session, bool) {
	if token == "" {
		return model.Session{}, false
	}
	return s.sessions.Get(token)
}

func (s *Store) Len() int {
	return s.sessions.Len()
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
