package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/telbook/telbook/internal/db/bunx"
	"github.com/telbook/telbook/internal/db/models"
	"github.com/telbook/telbook/internal/migrations"
	"github.com/telbook/telbook/internal/repository"
)

func ptr(s string) *string { return &s }

func validInput() Input {
	return Input{
		FirstName: ptr("First"),
		LastName:  ptr("User"),
		Phone:     ptr("89003337777"),
		Email:     ptr("first@user.ru"),
	}
}

func setupService(t *testing.T, pageSize int) (*Service, *bun.DB) {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	ctx := context.Background()
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return NewService(repository.NewBunContactRepository(db), pageSize), db
}

func seedUser(t *testing.T, db *bun.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Name: email, PasswordHash: "x"}
	require.NoError(t, repository.NewBunUserRepository(db).Create(context.Background(), user))
	return user
}

func TestService_Create(t *testing.T) {
	svc, db := setupService(t, 10)
	ctx := context.Background()
	owner := seedUser(t, db, "alice@example.com")

	t.Run("owner is always the acting user", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, owner.ID, created.OwnerID)
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)

		got, err := svc.Get(ctx, owner.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", got.FirstName)
		assert.Equal(t, "User", got.LastName)
		assert.Equal(t, "89003337777", got.Phone)
		assert.Equal(t, "first@user.ru", got.Email)
	})

	t.Run("invalid input is rejected without persisting", func(t *testing.T) {
		before, err := svc.List(ctx, owner.ID, "", 1)
		require.NoError(t, err)

		_, err = svc.Create(ctx, owner.ID, Input{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"This field is required."}, verr.Fields["first_name"])
		assert.Equal(t, []string{"This field is required."}, verr.Fields["last_name"])
		assert.Equal(t, []string{"This field is required."}, verr.Fields["phone"])
		assert.Equal(t, []string{"This field is required."}, verr.Fields["email"])

		after, err := svc.List(ctx, owner.ID, "", 1)
		require.NoError(t, err)
		assert.Equal(t, before.Count, after.Count)
	})
}

func TestService_OwnershipGuard(t *testing.T) {
	svc, db := setupService(t, 10)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	bobsContact, err := svc.Create(ctx, bob.ID, validInput())
	require.NoError(t, err)

	t.Run("foreign record is indistinguishable from missing", func(t *testing.T) {
		_, errForeign := svc.Get(ctx, alice.ID, bobsContact.ID)
		_, errMissing := svc.Get(ctx, alice.ID, 999999)

		assert.ErrorIs(t, errForeign, ErrNotFound)
		assert.ErrorIs(t, errMissing, ErrNotFound)
		assert.Equal(t, errForeign, errMissing)
	})

	t.Run("update on foreign record", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, bobsContact.ID, validInput(), false)
		assert.ErrorIs(t, err, ErrNotFound)

		// Bob's record is untouched
		got, err := svc.Get(ctx, bob.ID, bobsContact.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", got.FirstName)
	})

	t.Run("partial update on foreign record", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, bobsContact.ID, Input{Phone: ptr("+79046738754")}, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete on foreign record", func(t *testing.T) {
		err := svc.Delete(ctx, alice.ID, bobsContact.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.Get(ctx, bob.ID, bobsContact.ID)
		require.NoError(t, err)
	})

	t.Run("delete then get yields not found for the former owner", func(t *testing.T) {
		created, err := svc.Create(ctx, bob.ID, validInput())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, bob.ID, created.ID))

		_, err = svc.Get(ctx, bob.ID, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = svc.Delete(ctx, bob.ID, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	svc, db := setupService(t, 10)
	ctx := context.Background()
	owner := seedUser(t, db, "alice@example.com")

	t.Run("full update replaces every field", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, owner.ID, created.ID, Input{
			FirstName: ptr("Second"),
			LastName:  ptr("Person"),
			Phone:     ptr("+79046738754"),
			Email:     ptr("second@person.ru"),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, "Second", updated.FirstName)
		assert.Equal(t, "+79046738754", updated.Phone)
		assert.Equal(t, owner.ID, updated.OwnerID)
	})

	t.Run("full update requires all fields", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)

		_, err = svc.Update(ctx, owner.ID, created.ID, Input{Phone: ptr("89003337777")}, false)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "first_name")
		assert.Contains(t, verr.Fields, "last_name")
		assert.Contains(t, verr.Fields, "email")
		assert.NotContains(t, verr.Fields, "phone")
	})

	t.Run("partial update touches only supplied fields", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, owner.ID, created.ID, Input{Phone: ptr("+79046738754")}, true)
		require.NoError(t, err)
		assert.Equal(t, "+79046738754", updated.Phone)
		assert.Equal(t, "First", updated.FirstName)
		assert.Equal(t, "User", updated.LastName)
		assert.Equal(t, "first@user.ru", updated.Email)
	})

	t.Run("partial update still validates supplied fields", func(t *testing.T) {
		created, err := svc.Create(ctx, owner.ID, validInput())
		require.NoError(t, err)

		_, err = svc.Update(ctx, owner.ID, created.ID, Input{Phone: ptr("111")}, true)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Invalid phone number format."}, verr.Fields["phone"])
	})
}

func TestService_List(t *testing.T) {
	svc, db := setupService(t, 2)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	names := []struct{ first, last string }{
		{"Anna", "Brown"},
		{"Anna", "Smith"},
		{"Charlie", "Young"},
		{"Dora", "Adams"},
		{"Eve", "Stone"},
	}
	for _, n := range names {
		in := validInput()
		in.FirstName = ptr(n.first)
		in.LastName = ptr(n.last)
		_, err := svc.Create(ctx, alice.ID, in)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob.ID, validInput())
	require.NoError(t, err)

	t.Run("pages are owner-scoped and ordered", func(t *testing.T) {
		page, err := svc.List(ctx, alice.ID, "", 1)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Count)
		require.Len(t, page.Results, 2)
		assert.Equal(t, "Brown", page.Results[0].LastName)
		assert.Equal(t, "Smith", page.Results[1].LastName)
		assert.True(t, page.HasNext())
		assert.False(t, page.HasPrevious())
	})

	t.Run("last page is short", func(t *testing.T) {
		page, err := svc.List(ctx, alice.ID, "", 3)
		require.NoError(t, err)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "Eve", page.Results[0].FirstName)
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrevious())
	})

	t.Run("page past the end", func(t *testing.T) {
		_, err := svc.List(ctx, alice.ID, "", 4)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("page zero", func(t *testing.T) {
		_, err := svc.List(ctx, alice.ID, "", 0)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("page one of an empty listing is valid", func(t *testing.T) {
		carol := seedUser(t, db, "carol@example.com")
		page, err := svc.List(ctx, carol.ID, "", 1)
		require.NoError(t, err)
		assert.Equal(t, 0, page.Count)
		assert.Empty(t, page.Results)
		assert.False(t, page.HasNext())
	})

	t.Run("search filters within the owner scope", func(t *testing.T) {
		page, err := svc.List(ctx, alice.ID, "anna", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Count)
		require.Len(t, page.Results, 2)
		for _, c := range page.Results {
			assert.Equal(t, "Anna", c.FirstName)
		}
	})

	t.Run("listing excludes other owners entirely", func(t *testing.T) {
		for page := 1; page <= 3; page++ {
			p, err := svc.List(ctx, alice.ID, "", page)
			require.NoError(t, err)
			for _, c := range p.Results {
				assert.Equal(t, alice.ID, c.OwnerID,
					fmt.Sprintf("page %d leaked a foreign contact", page))
			}
		}
	})
}
