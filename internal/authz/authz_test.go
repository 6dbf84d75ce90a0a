package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/models"
)

func ptr(v int64) *int64 { return &v }

func TestPrincipal_Moderator(t *testing.T) {
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}
	regular := authz.Principal{UserID: 2, Groups: []string{"Students"}}

	assert.True(t, moderator.Moderator())
	assert.False(t, regular.Moderator())
	assert.False(t, authz.Principal{UserID: 3}.Moderator())
}

func TestCanSee(t *testing.T) {
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}
	owner := authz.Principal{UserID: 2}
	stranger := authz.Principal{UserID: 3}

	tests := []struct {
		name    string
		p       authz.Principal
		ownerID *int64
		want    bool
	}{
		{"moderator sees foreign object", moderator, ptr(2), true},
		{"moderator sees ownerless object", moderator, nil, true},
		{"owner sees own object", owner, ptr(2), true},
		{"stranger does not see foreign object", stranger, ptr(2), false},
		{"stranger does not see ownerless object", stranger, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanSee(tt.p, tt.ownerID))
		})
	}
}

func TestCanCollection(t *testing.T) {
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}
	regular := authz.Principal{UserID: 2}

	assert.True(t, authz.CanCollection(regular, authz.ActionList))
	assert.True(t, authz.CanCollection(moderator, authz.ActionList))

	assert.True(t, authz.CanCollection(regular, authz.ActionCreate))
	assert.False(t, authz.CanCollection(moderator, authz.ActionCreate),
		"moderators must not create content")
}

func TestCan(t *testing.T) {
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}
	owner := authz.Principal{UserID: 2}
	foreign := ptr(int64(2))

	tests := []struct {
		name    string
		p       authz.Principal
		action  authz.Action
		ownerID *int64
		want    bool
	}{
		{"owner updates own object", owner, authz.ActionUpdate, ptr(2), true},
		{"moderator updates foreign object", moderator, authz.ActionUpdate, foreign, true},
		{"moderator partially updates foreign object", moderator, authz.ActionPartialUpdate, foreign, true},
		{"owner destroys own object", owner, authz.ActionDestroy, ptr(2), true},
		{"moderator cannot destroy foreign object", moderator, authz.ActionDestroy, foreign, false},
		{"anyone visible can retrieve", moderator, authz.ActionRetrieve, foreign, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.Can(tt.p, tt.action, tt.ownerID))
		})
	}
}
