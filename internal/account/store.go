package account

import "photodrop/internal/model"

// Store is the immutable credential list, built once at startup and passed
// to whoever needs it. Lookup is a linear scan over the configured order;
// the first exact match on both fields wins.
type Store struct {
	accounts []model.Account
}

func NewStore(accounts []model.Account) *Store {
	copied := make([]model.Account, len(accounts))
	copy(copied, accounts)
	return &Store{accounts: copied}
}

// Authenticate compares username and password case-sensitively, as
// configured. A miss is a normal outcome, not an error.
func (s *Store) Authenticate(username, password string) (*model.Account, bool) {
	for i := range s.accounts {
		acc := &s.accounts[i]
		if acc.Username == username && acc.Password == password {
			matched := *acc
			return &matched, true
		}
	}
	return nil, false
}

func (s *Store) Len() int {
	return len(s.accounts)
}
