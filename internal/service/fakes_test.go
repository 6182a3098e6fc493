package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reservation-desk/backend/internal/config"
	"github.com/reservation-desk/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("store down")

type fakeLedger struct {
	mu       sync.Mutex
	rows     []model.ReservationSlot
	replaced int
	fail     error
}

func (f *fakeLedger) ReplaceSlots(ctx context.Context, rows []model.ReservationSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.rows = append([]model.ReservationSlot(nil), rows...)
	f.replaced++
	return nil
}

func (f *fakeLedger) UpdateSlot(ctx context.Context, date, slotTime string, apply func(model.ReservationSlot) (model.ReservationSlot, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	for i, row := range f.rows {
		if row.Date == date && row.Time == slotTime {
			merged, err := apply(row)
			if err != nil {
				return err
			}
			f.rows[i] = merged
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeLedger) ListSlots(ctx context.Context) ([]model.ReservationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := append([]model.ReservationSlot{}, f.rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeLedger) ListSlotsByDate(ctx context.Context, date string) ([]model.ReservationSlot, error) {
	all, err := f.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ReservationSlot, 0)
	for _, row := range all {
		if row.Date == date {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetSlot(ctx context.Context, date, slotTime string) (*model.ReservationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	for _, row := range f.rows {
		if row.Date == date && row.Time == slotTime {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]model.User
	lookup int
	race   bool
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]model.User)}
	for _, u := range users {
		repo.users[u.Username] = u
	}
	return repo
}

func (f *fakeUserRepo) FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookup++
	out := make([]model.User, 0)
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.race {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	f.users[user.Username] = user
	return &user, nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) UpdateImageRef(ctx context.Context, username, imageRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return "", pgx.ErrNoRows
	}
	previous := u.ImageRef
	u.ImageRef = imageRef
	f.users[username] = u
	return previous, nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, username)
	return nil
}

type fakeGuard struct {
	locked   bool
	failures int
	resets   int
}

func (g *fakeGuard) Locked(context.Context, string) bool   { return g.locked }
func (g *fakeGuard) RecordFailure(context.Context, string) { g.failures++ }
func (g *fakeGuard) Reset(context.Context, string)         { g.resets++ }

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     "10m",
		JWTRefreshTTL:    "30m",
	}
}

func newTestAuthService(repo *fakeUserRepo, guard LoginGuard) (*AuthService, *TokenIssuer) {
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		panic(err)
	}
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), tokens, guard, nil), tokens
}
