package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Actor{}
	client    = Actor{UserID: 7, Username: "marco", Authenticated: true}
	admin     = Actor{UserID: 1, Username: "root", Authenticated: true, Admin: true}
)

func TestCanView(t *testing.T) {
	cases := []struct {
		name     string
		actor    Actor
		ownerID  uint
		isPublic bool
		want     bool
	}{
		{"anonymous sees public", anonymous, 7, true, true},
		{"anonymous blocked from private", anonymous, 7, false, false},
		{"owner sees own private", client, 7, false, true},
		{"client blocked from foreign private", client, 8, false, false},
		{"client sees foreign public", client, 8, true, true},
		{"admin sees any private", admin, 7, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanView(tc.actor, tc.ownerID, tc.isPublic))
		})
	}
}

func TestCanModify(t *testing.T) {
	assert.False(t, CanModify(anonymous, 7))
	assert.True(t, CanModify(client, 7))
	assert.False(t, CanModify(client, 8))
	assert.True(t, CanModify(admin, 8))
}

func TestCanCurate(t *testing.T) {
	assert.False(t, CanCurate(anonymous))
	assert.False(t, CanCurate(client))
	assert.True(t, CanCurate(admin))
}

func TestSelfOrAdmin(t *testing.T) {
	assert.False(t, SelfOrAdmin(anonymous, 7))
	assert.True(t, SelfOrAdmin(client, 7))
	assert.False(t, SelfOrAdmin(client, 1))
	assert.True(t, SelfOrAdmin(admin, 7))
}
