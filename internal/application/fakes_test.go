package application

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
)

// In-memory stand-ins for the postgres and redis stores, plus a notifier
// that records what would have been mailed.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, existing := range f.users {
		if existing.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.Email = email
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) SetRefreshTokenHash(_ context.Context, id string, hash *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, in *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[in.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name = in.Name
	u.Phone = in.Phone
	u.AddressLine1 = in.AddressLine1
	u.AddressLine2 = in.AddressLine2
	u.City = in.City
	u.State = in.State
	u.PostalCode = in.PostalCode
	u.Country = in.Country
	u.AvatarURL = in.AvatarURL
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

type fakeVerificationRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Verification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{byID: map[string]*entity.Verification{}}
}

func (f *fakeVerificationRepo) Put(_ context.Context, v *entity.Verification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.byID {
		if existing.Email == v.Email && existing.Kind == v.Kind && id != v.ID {
			delete(f.byID, id)
		}
	}
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVerificationRepo) Get(_ context.Context, id string) (*entity.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVerificationRepo) Update(_ context.Context, v *entity.Verification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[v.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVerificationRepo) Delete(_ context.Context, v *entity.Verification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, v.ID)
	return nil
}

type fakeResetRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.PasswordReset
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byID: map[string]*entity.PasswordReset{}}
}

func (f *fakeResetRepo) Put(_ context.Context, r *entity.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.byID {
		if existing.Email == r.Email && id != r.ID {
			delete(f.byID, id)
		}
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeResetRepo) Get(_ context.Context, id string) (*entity.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResetRepo) GetByEmail(_ context.Context, email string) (*entity.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeResetRepo) Update(_ context.Context, r *entity.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[r.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

type sentMail struct {
	To   string
	Code string
	Link string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) SendVerificationCode(_ context.Context, to, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Code: code})
	return nil
}

func (f *fakeNotifier) SendPasswordReset(_ context.Context, to, link string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Link: link})
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeNotifier) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}
	}
	return f.sent[len(f.sent)-1]
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
