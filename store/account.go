package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/portfolio"
)

// AccountFile keeps the account document at Path.
type AccountFile struct {
	Path     string
	Defaults portfolio.Settings
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *AccountFile) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *AccountFile) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Load reads the account. A missing file yields a fresh default account; a
// malformed one is logged and also replaced by a default account.
func (s *AccountFile) Load() (*portfolio.Account, error) {
	log := s.logger()
	b, err := readFile(s.Path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		log.Info("account document not found, using defaults", zap.String("path", s.Path))
		return portfolio.NewAccount(s.Defaults, s.now()), nil
	}

	acct, err := portfolio.DecodeAccount(b, s.Defaults, s.now(), log)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrMalformedDocument, s.Path, err)
		log.Error("account document malformed, using defaults", zap.Error(err))
		return portfolio.NewAccount(s.Defaults, s.now()), nil
	}
	log.Info("account loaded",
		zap.String("path", s.Path), zap.Int("positions", len(acct.Positions)))
	return acct, nil
}

// Save writes the account document, stamping its update time.
func (s *AccountFile) Save(a *portfolio.Account) error {
	a.Touch(s.now())
	if err := writeJSON(s.Path, a); err != nil {
		s.logger().Error("save account failed", zap.String("path", s.Path), zap.Error(err))
		return err
	}
	s.logger().Debug("account saved", zap.String("path", s.Path))
	return nil
}
