package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) (*gorm.DB, *Store) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "identity.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)
	return db, s
}

func TestStoreTrophies(t *testing.T) {
	db, s := setupStore(t)
	require.NoError(t, db.Create(&User{UserID: "u1", Trophies: 42}).Error)

	assert.Equal(t, 42, s.Trophies("u1"))
	assert.Equal(t, 0, s.Trophies("unknown"))
}

func TestStoreUnknownUserIsGuest(t *testing.T) {
	db, s := setupStore(t)
	require.NoError(t, db.Create(&User{UserID: "u1", Guest: false}).Error)
	require.NoError(t, db.Create(&User{UserID: "g1", Guest: true}).Error)

	assert.False(t, s.IsGuest("u1"))
	assert.True(t, s.IsGuest("g1"))
	assert.True(t, s.IsGuest("never-seen"))
}

func TestStoreBlockedEitherDirection(t *testing.T) {
	db, s := setupStore(t)
	require.NoError(t, db.Create(&Block{BlockerID: "u1", BlockedID: "u2"}).Error)

	assert.True(t, s.Blocked("u1", "u2"))
	assert.True(t, s.Blocked("u2", "u1"))
	assert.False(t, s.Blocked("u1", "u3"))
}

func TestStoreFriendsSymmetric(t *testing.T) {
	db, s := setupStore(t)
	require.NoError(t, db.Create(&Friendship{UserAID: "u1", UserBID: "u2"}).Error)

	assert.True(t, s.Friends("u1", "u2"))
	assert.True(t, s.Friends("u2", "u1"))
	assert.False(t, s.Friends("u1", "u3"))
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic()
	p.SetTrophies("u1", 10)
	p.SetGuest("g1", true)
	p.SetBlocked("u1", "u2", true)
	p.SetFriends("u1", "u3", true)

	assert.Equal(t, 10, p.Trophies("u1"))
	assert.Equal(t, 0, p.Trophies("u2"))
	assert.True(t, p.IsGuest("g1"))
	assert.False(t, p.IsGuest("u1"))
	assert.True(t, p.Blocked("u2", "u1"))
	assert.True(t, p.Friends("u3", "u1"))

	p.SetBlocked("u1", "u2", false)
	assert.False(t, p.Blocked("u1", "u2"))
}
