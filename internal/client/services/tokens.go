// Package services contains application services for the console: the
// durable bearer-token store and the read models behind each screen.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vendorconsole/internal/common"
	"github.com/dmitrijs2005/vendorconsole/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by Load when the stored token's exp claim is
// in the past.
var ErrTokenExpired = errors.New("stored token expired")

// SavedToken is the bearer token kept between runs.
type SavedToken struct {
	Token   string
	Mobile  string
	SavedAt time.Time
	// ExpiresAt is zero when the token carries no exp claim or is not a JWT.
	ExpiresAt time.Time
}

// TokenStore keeps the API bearer token in the local database.
//
// Contract:
//   - Save: persist token and the mobile number it was issued for.
//   - Load: return the stored token; client.ErrLocalDataNotAvailable when
//     nothing is stored, ErrTokenExpired when its exp claim has passed.
//   - Token: the token to send, or "" when there is none usable.
//   - Clear: forget everything stored.
type TokenStore interface {
	Save(ctx context.Context, token, mobile string) error
	Load(ctx context.Context) (SavedToken, error)
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type tokenStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewTokenStore(db *sql.DB) TokenStore {
	return &tokenStore{db: db, now: time.Now}
}

func (s *tokenStore) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

func (s *tokenStore) Save(ctx context.Context, token, mobile string) error {
	if token == "" {
		return errors.New("empty token")
	}
	savedAt := strconv.FormatInt(s.now().Unix(), 10)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, common.MetadataKeyToken, []byte(token)); err != nil {
			return err
		}
		if err := r.Set(ctx, common.MetadataKeyMobile, []byte(mobile)); err != nil {
			return err
		}
		return r.Set(ctx, common.MetadataKeySavedAt, []byte(savedAt))
	})
}

func (s *tokenStore) Load(ctx context.Context) (SavedToken, error) {
	r := s.repo(s.db)

	tok, err := r.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return SavedToken{}, err
	}
	if tok == nil || len(tok.Value) == 0 {
		return SavedToken{}, client.ErrLocalDataNotAvailable
	}

	saved := SavedToken{Token: string(tok.Value), SavedAt: tok.UpdatedAt}

	if m, err := r.Get(ctx, common.MetadataKeyMobile); err != nil {
		return SavedToken{}, err
	} else if m != nil {
		saved.Mobile = string(m.Value)
	}

	if at, err := r.Get(ctx, common.MetadataKeySavedAt); err != nil {
		return SavedToken{}, err
	} else if at != nil {
		if sec, err := strconv.ParseInt(string(at.Value), 10, 64); err == nil {
			saved.SavedAt = time.Unix(sec, 0).UTC()
		}
	}

	saved.ExpiresAt = expiry(saved.Token)
	if !saved.ExpiresAt.IsZero() && !s.now().Before(saved.ExpiresAt) {
		return saved, ErrTokenExpired
	}
	return saved, nil
}

func (s *tokenStore) Token(ctx context.Context) (string, error) {
	saved, err := s.Load(ctx)
	switch {
	case errors.Is(err, client.ErrLocalDataNotAvailable), errors.Is(err, ErrTokenExpired):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("load token: %w", err)
	}
	return saved.Token, nil
}

func (s *tokenStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx,
		common.MetadataKeyToken,
		common.MetadataKeyMobile,
		common.MetadataKeySavedAt,
	)
}

// expiry reads the exp claim without verifying the signature; the console
// never holds the signing key. Opaque tokens have no expiry.
func expiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time.UTC()
}
