package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wicki/internal/domain"
	"wicki/internal/store"
	"wicki/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, st *store.Store, email, username string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Username: username}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

func TestUserUniqueness(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	createUser(t, st, "a@x.com", "alice")

	err := st.Users().Create(ctx, &domain.User{Email: "a@x.com", Username: "other"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = st.Users().Create(ctx, &domain.User{Email: "b@x.com", Username: "alice"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = st.Users().GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestUsernameTakenExcludesSelf(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "a@x.com", "alice")

	taken, err := st.Users().UsernameTaken(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = st.Users().UsernameTaken(ctx, "alice", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestSessionLiveLookup(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@x.com", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	live := &domain.Session{UserID: u.ID, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, st.Sessions().Create(ctx, live))
	atBoundary := &domain.Session{UserID: u.ID, ExpiresAt: now}
	require.NoError(t, st.Sessions().Create(ctx, atBoundary))
	past := &domain.Session{UserID: u.ID, ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, st.Sessions().Create(ctx, past))

	got, err := st.Sessions().GetLiveUserID(ctx, live.ID, now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got)

	for _, id := range []uuid.UUID{atBoundary.ID, past.ID, uuid.New()} {
		_, err := st.Sessions().GetLiveUserID(ctx, id, now)
		assert.ErrorIs(t, err, store.ErrRecordNotFound)
	}

	n, err := st.Sessions().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSessionOfDeletedUserDoesNotResolve(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@x.com", "alice")
	now := time.Now().UTC()

	s := &domain.Session{UserID: u.ID, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, st.Sessions().Create(ctx, s))

	// remove only the user row so the session is orphaned
	require.NoError(t, st.DB.Where("id = ?", u.ID).Delete(&domain.User{}).Error)

	_, err := st.Sessions().GetLiveUserID(ctx, s.ID, now)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestVerificationUpsertAndConsume(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	exp := now.Add(10 * time.Minute)

	first := &domain.Verification{
		Target: "a@x.com", Type: domain.VerificationOnboarding,
		Secret: "FIRST", Algorithm: "SHA1", Digits: 6, Period: 600, CharSet: "0123456789",
		ExpiresAt: &exp,
	}
	require.NoError(t, st.Verifications().Upsert(ctx, first))

	second := &domain.Verification{
		Target: "a@x.com", Type: domain.VerificationOnboarding,
		Secret: "SECOND", Algorithm: "SHA1", Digits: 6, Period: 600, CharSet: "0123456789",
		ExpiresAt: &exp,
	}
	require.NoError(t, st.Verifications().Upsert(ctx, second))

	var count int64
	require.NoError(t, st.DB.Model(&domain.Verification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := st.Verifications().GetActive(ctx, "a@x.com", domain.VerificationOnboarding, now)
	require.NoError(t, err)
	assert.Equal(t, "SECOND", got.Secret)

	_, err = st.Verifications().GetActive(ctx, "a@x.com", domain.VerificationOnboarding, exp)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, st.Verifications().Consume(ctx, got))
	err = st.Verifications().Consume(ctx, got)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestVerificationConsumeKeepsReissuedCode(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	exp := now.Add(10 * time.Minute)

	issue := func(secret string) {
		require.NoError(t, st.Verifications().Upsert(ctx, &domain.Verification{
			Target: "a@x.com", Type: domain.VerificationOnboarding,
			Secret: secret, Algorithm: "SHA1", Digits: 6, Period: 600, CharSet: "0123456789",
			ExpiresAt: &exp,
		}))
	}
	issue("OLD")
	stale, err := st.Verifications().GetActive(ctx, "a@x.com", domain.VerificationOnboarding, now)
	require.NoError(t, err)

	// re-sent between the lookup and the delete
	issue("NEW")

	err = st.Verifications().Consume(ctx, stale)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	got, err := st.Verifications().GetActive(ctx, "a@x.com", domain.VerificationOnboarding, now)
	require.NoError(t, err)
	assert.Equal(t, "NEW", got.Secret)
}

func TestVerificationWithoutExpiryStaysActive(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	v := &domain.Verification{
		Target: "b@x.com", Type: domain.VerificationOnboarding,
		Secret: "S", Algorithm: "SHA1", Digits: 6, Period: 600, CharSet: "0123456789",
	}
	require.NoError(t, st.Verifications().Upsert(ctx, v))

	_, err := st.Verifications().GetActive(ctx, "b@x.com", domain.VerificationOnboarding, time.Now().Add(24*time.Hour))
	assert.NoError(t, err)
}

func TestPermissionJoins(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@x.com", "alice")

	role, err := st.Roles().EnsureRole(ctx, domain.RoleUser, "")
	require.NoError(t, err)
	perm, err := st.Roles().EnsurePermission(ctx, "update", "post", domain.AccessOwn)
	require.NoError(t, err)
	require.NoError(t, st.Roles().Grant(ctx, role.ID, perm.ID))
	require.NoError(t, st.Roles().Grant(ctx, role.ID, perm.ID))
	require.NoError(t, st.Roles().AssignToUser(ctx, u.ID, role.ID))

	again, err := st.Roles().EnsurePermission(ctx, "update", "post", domain.AccessOwn)
	require.NoError(t, err)
	assert.Equal(t, perm.ID, again.ID)

	ok, err := st.Roles().HasPermission(ctx, u.ID, "update", "post", []string{domain.AccessOwn})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Roles().HasPermission(ctx, u.ID, "update", "post", []string{domain.AccessAny})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.Roles().HasPermission(ctx, u.ID, "delete", "post", []string{domain.AccessOwn, domain.AccessAny})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.Roles().HasRole(ctx, u.ID, domain.RoleUser)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.Roles().HasRole(ctx, u.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	perms, err := st.Roles().PermissionsForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "update", perms[0].Action)
}

func TestDeleteUserData(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@x.com", "alice")
	other := createUser(t, st, "b@x.com", "bob")

	require.NoError(t, st.Sessions().Create(ctx, &domain.Session{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, st.Posts().Create(ctx, &domain.Post{UserID: u.ID, Title: "hello", Content: "world"}))
	require.NoError(t, st.Posts().Create(ctx, &domain.Post{UserID: other.ID, Title: "bob's", Content: "post"}))
	for _, target := range []string{"a@x.com", "b@x.com"} {
		require.NoError(t, st.Verifications().Upsert(ctx, &domain.Verification{
			Target: target, Type: domain.VerificationOnboarding,
			Secret: "S", Algorithm: "SHA1", Digits: 6, Period: 600, CharSet: "0123456789",
		}))
	}

	counts, err := st.DeleteUserData(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts["users"])
	assert.EqualValues(t, 1, counts["sessions"])
	assert.EqualValues(t, 1, counts["posts"])
	assert.EqualValues(t, 1, counts["verifications"])

	_, err = st.Verifications().GetActive(ctx, "a@x.com", domain.VerificationOnboarding, time.Now())
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	_, err = st.Verifications().GetActive(ctx, "b@x.com", domain.VerificationOnboarding, time.Now())
	assert.NoError(t, err)

	_, err = st.Users().GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	posts, err := st.Posts().ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = st.DeleteUserData(ctx, u.ID)
	assert.True(t, errors.Is(err, store.ErrRecordNotFound))
}

func TestWithTxRollsBack(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, &domain.User{Email: "a@x.com", Username: "alice"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Users().GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}
