package impl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wicki/internal/domain"
	"wicki/internal/events"
	"wicki/internal/observability/logging"
	"wicki/internal/observability/metrics"
	"wicki/internal/service"
	"wicki/internal/store"
	"wicki/internal/validation"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 14 * 24 * time.Hour

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	SessionTTL      time.Duration
	Now             func() time.Time

	dummyOnce sync.Once
	dummy     *domain.PasswordCredential
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, sessionTTL time.Duration) *AuthServiceImpl {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		SessionTTL:      sessionTTL,
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	Direct() storeTx
}

type storeTx interface {
	Users() userStore
	Credentials() credentialStore
	Sessions() sessionStore
	Roles() roleStore
	Audit() auditStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, except domain.UserID) (bool, error)
	UsernameTaken(ctx context.Context, username string, except domain.UserID) (bool, error)
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error)
}

type sessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id domain.SessionID) (*domain.Session, error)
	GetLiveUserID(ctx context.Context, id domain.SessionID, now time.Time) (domain.UserID, error)
	Delete(ctx context.Context, id domain.SessionID) error
	DeleteAllForUser(ctx context.Context, userID domain.UserID, keep domain.SessionID) (int64, error)
}

type roleStore interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	AssignToUser(ctx context.Context, userID domain.UserID, roleID domain.RoleID) error
}

type auditStore interface {
	Record(ctx context.Context, userID *domain.UserID, action string, metadata any, ip, ua string) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

func (g gormStoreAdapter) Direct() storeTx { return gormTxAdapter{tx: g.store} }

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore             { return g.tx.Users() }
func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }
func (g gormTxAdapter) Sessions() sessionStore       { return g.tx.Sessions() }
func (g gormTxAdapter) Roles() roleStore             { return g.tx.Roles() }
func (g gormTxAdapter) Audit() auditStore            { return g.tx.Audit() }

func (a *AuthServiceImpl) Signup(ctx context.Context, email, username, password string, meta service.ClientMeta) (*domain.User, *domain.Session, error) {
	email = validation.NormalizeEmail(email)
	username = validation.NormalizeUsername(username)
	switch {
	case email == "":
		return nil, nil, ErrEmptyEmail
	case username == "":
		return nil, nil, ErrEmptyUsername
	case password == "":
		return nil, nil, ErrEmptyPassword
	}

	hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	var (
		user *domain.User
		sess *domain.Session
	)
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		now := a.Now()

		if taken, err := tx.Users().EmailTaken(ctx, email, uuid.Nil); err != nil {
			return err
		} else if taken {
			return domain.ErrEmailTaken
		}
		if taken, err := tx.Users().UsernameTaken(ctx, username, uuid.Nil); err != nil {
			return err
		} else if taken {
			return domain.ErrUsernameTaken
		}

		user = &domain.User{
			ID:        uuid.New(),
			Email:     email,
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// lost a race with a concurrent signup
				return domain.ErrUsernameTaken
			}
			return err
		}

		if err := tx.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
			UserID:      user.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}

		roleAssigned := false
		role, err := tx.Roles().GetByName(ctx, domain.RoleUser)
		switch {
		case err == nil:
			if err := tx.Roles().AssignToUser(ctx, user.ID, role.ID); err != nil {
				return err
			}
			roleAssigned = true
		case errors.Is(err, store.ErrRecordNotFound):
			logging.FromContext(ctx).Warn("default role missing, user created without role",
				"role", domain.RoleUser, "user_id", user.ID)
		default:
			return err
		}

		sess, err = a.newSession(ctx, tx, user.ID, meta)
		if err != nil {
			return err
		}

		return tx.Audit().Record(ctx, &user.ID, events.ActionSignup, events.UserSignedUp{
			UserID:   user.ID.String(),
			Email:    user.Email,
			Username: user.Username,
			RoleSet:  roleAssigned,
			At:       now,
		}, meta.IP, meta.UserAgent)
	})
	metrics.AuthSignupsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, email, password string, meta service.ClientMeta) (*domain.Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	var (
		sess     *domain.Session
		rehashed bool
	)
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if errors.Is(err, store.ErrRecordNotFound) {
			a.burnVerify(password)
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		cred, err := tx.Credentials().GetPasswordByUserID(ctx, user.ID)
		if errors.Is(err, store.ErrRecordNotFound) {
			a.burnVerify(password)
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		rehashNeeded, ok := a.PasswordService.Verify(password, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		if rehashNeeded {
			newHash, newSalt, newParamsJSON, algo, ver, err := a.PasswordService.Hash(password)
			if err != nil {
				return err
			}
			cred.Algo = algo
			cred.Hash = newHash
			cred.Salt = newSalt
			cred.ParamsJSON = newParamsJSON
			cred.PasswordVer = ver
			if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
				return err
			}
			rehashed = true
		}

		sess, err = a.newSession(ctx, tx, user.ID, meta)
		if err != nil {
			return err
		}
		return tx.Audit().Record(ctx, &user.ID, events.ActionLogin, events.SessionCreated{
			SessionID: sess.ID.String(),
			UserID:    user.ID.String(),
			ExpiresAt: sess.ExpiresAt,
			Rehashed:  rehashed,
			At:        sess.CreatedAt,
		}, meta.IP, meta.UserAgent)
	})

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	case err != nil:
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}
	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	return sess, nil
}

// burnVerify spends the same work as a real verification so a missing
// account cannot be told apart by timing.
func (a *AuthServiceImpl) burnVerify(password string) {
	a.dummyOnce.Do(func() {
		hash, salt, params, algo, ver, err := a.PasswordService.Hash("not-a-real-password")
		if err != nil {
			return
		}
		a.dummy = &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}
	})
	if a.dummy != nil {
		a.PasswordService.Verify(password, a.dummy)
	}
}

func (a *AuthServiceImpl) newSession(ctx context.Context, tx storeTx, userID domain.UserID, meta service.ClientMeta) (*domain.Session, error) {
	now := a.Now()
	s := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(a.SessionTTL),
		CreatedAt: now,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := tx.Sessions().Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *AuthServiceImpl) ResolveSession(ctx context.Context, id domain.SessionID) (domain.UserID, error) {
	if id == uuid.Nil {
		metrics.SessionsResolvedTotal.WithLabelValues("missing").Inc()
		return uuid.Nil, domain.ErrSessionNotFound
	}
	userID, err := a.Store.Direct().Sessions().GetLiveUserID(ctx, id, a.Now())
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		metrics.SessionsResolvedTotal.WithLabelValues("invalid").Inc()
		return uuid.Nil, domain.ErrSessionNotFound
	case err != nil:
		metrics.SessionsResolvedTotal.WithLabelValues("error").Inc()
		return uuid.Nil, fmt.Errorf("resolve session: %w", err)
	}
	metrics.SessionsResolvedTotal.WithLabelValues("valid").Inc()
	return userID, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, id domain.SessionID, meta service.ClientMeta) error {
	if id == uuid.Nil {
		return nil
	}
	st := a.Store.Direct()
	sess, err := st.Sessions().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := st.Sessions().Delete(ctx, id); err != nil {
		return err
	}
	return st.Audit().Record(ctx, &sess.UserID, events.ActionLogout, events.SessionRevoked{
		SessionID: id.String(),
		UserID:    sess.UserID.String(),
		At:        a.Now(),
	}, meta.IP, meta.UserAgent)
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, userID domain.UserID, keep domain.SessionID, current, next string, meta service.ClientMeta) error {
	if next == "" {
		return ErrEmptyPassword
	}
	return a.Store.WithTx(ctx, func(tx storeTx) error {
		cred, err := tx.Credentials().GetPasswordByUserID(ctx, userID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if _, ok := a.PasswordService.Verify(current, cred); !ok {
			return domain.ErrInvalidCredentials
		}

		hash, salt, params, algo, ver, err := a.PasswordService.Hash(next)
		if err != nil {
			return err
		}
		cred.Algo, cred.Hash, cred.Salt, cred.ParamsJSON, cred.PasswordVer = algo, hash, salt, params, ver
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return err
		}
		revoked, err := tx.Sessions().DeleteAllForUser(ctx, userID, keep)
		if err != nil {
			return err
		}
		return tx.Audit().Record(ctx, &userID, events.ActionPasswordChanged, events.PasswordChanged{
			UserID:          userID.String(),
			SessionsRevoked: revoked,
			At:              a.Now(),
		}, meta.IP, meta.UserAgent)
	})
}
