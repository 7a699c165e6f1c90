package resolvers

import (
	"testing"

	crosslock "github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/gconf"
	"github.com/crosslock-one/crosslock/locktest"
	"github.com/crosslock-one/crosslock/locktest/assert"
	"github.com/crosslock-one/crosslock/migration"
	"github.com/crosslock-one/crosslock/store"
)

func TestUpdateResolversHandler(t *testing.T) {
	owner := locktest.NewCondition()
	resolver := locktest.NewCondition().Address()
	newcomer := locktest.NewCondition().Address()
	stranger := locktest.NewCondition()

	cases := map[string]struct {
		signer        crosslock.Condition
		msg           *UpdateResolversMsg
		wantErr       *errors.Error
		wantResolvers []crosslock.Address
		wantTags      int
	}{
		"owner can authorize": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				Authorize: []crosslock.Address{newcomer},
			},
			wantResolvers: []crosslock.Address{resolver, newcomer},
			wantTags:      1,
		},
		"owner can deauthorize": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata:    &crosslock.Metadata{Schema: 1},
				Deauthorize: []crosslock.Address{resolver},
			},
			wantResolvers: []crosslock.Address{},
			wantTags:      1,
		},
		"authorize and deauthorize in one message": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata:    &crosslock.Metadata{Schema: 1},
				Authorize:   []crosslock.Address{newcomer},
				Deauthorize: []crosslock.Address{resolver},
			},
			wantResolvers: []crosslock.Address{newcomer},
			wantTags:      2,
		},
		"only the owner can update": {
			signer: stranger,
			msg: &UpdateResolversMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				Authorize: []crosslock.Address{newcomer},
			},
			wantErr: errors.ErrUnauthorized,
		},
		"authorizing a listed resolver fails": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata:  &crosslock.Metadata{Schema: 1},
				Authorize: []crosslock.Address{resolver},
			},
			wantErr: errors.ErrDuplicate,
		},
		"deauthorizing an unknown address fails": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata:    &crosslock.Metadata{Schema: 1},
				Deauthorize: []crosslock.Address{newcomer},
			},
			wantErr: errors.ErrNotFound,
		},
		"empty message is rejected": {
			signer: owner,
			msg: &UpdateResolversMsg{
				Metadata: &crosslock.Metadata{Schema: 1},
			},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, packageName)

			ac := AccessControl{
				Metadata:  &crosslock.Metadata{Schema: 1},
				Owner:     owner.Address(),
				Resolvers: []crosslock.Address{resolver},
			}
			assert.Nil(t, gconf.Save(db, packageName, &ac))

			auth := &locktest.Auth{Signer: tc.signer}
			h := UpdateResolversHandler{auth: auth}
			tx := &locktest.Tx{Msg: tc.msg}

			if _, err := h.Check(nil, db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := h.Deliver(nil, db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			assert.Equal(t, tc.wantTags, len(res.Tags))

			stored, err := loadAccessControl(db)
			assert.Nil(t, err)
			assert.Equal(t, len(tc.wantResolvers), len(stored.Resolvers))
			for i, want := range tc.wantResolvers {
				assert.Equal(t, want, stored.Resolvers[i])
			}
		})
	}
}

func TestAllowListChecker(t *testing.T) {
	resolver := locktest.NewCondition().Address()
	stranger := locktest.NewCondition().Address()

	db := store.MemStore()
	migration.MustInitPkg(db, packageName)
	ac := AccessControl{
		Metadata:  &crosslock.Metadata{Schema: 1},
		Owner:     locktest.NewCondition().Address(),
		Resolvers: []crosslock.Address{resolver},
	}
	assert.Nil(t, gconf.Save(db, packageName, &ac))

	checker := NewChecker()
	ok, err := checker.IsResolver(db, resolver)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	ok, err = checker.IsResolver(db, stranger)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}
