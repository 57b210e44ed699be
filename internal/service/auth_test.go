package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

func register(t *testing.T, e *env, email string) *models.Customer {
	t.Helper()
	c, err := e.auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "s3cret",
		FullName: "Carla Dizon",
	})
	require.NoError(t, err)
	return c
}

func TestRegister_RequiresFieldsAndUniqueEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)

	_, err := e.auth.Register(ctx, RegisterInput{Email: "x@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	register(t, e, "Carla@Example.com")

	_, err = e.auth.Register(ctx, RegisterInput{Email: "carla@example.com", Password: "pw", FullName: "Other"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Email already registered", Message(err))
}

func TestLoginCustomer_IssuesCustomerPrincipal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	c := register(t, e, "carla@example.com")

	_, err := e.auth.LoginCustomer(ctx, "carla@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = e.auth.LoginCustomer(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrUnauthorized)

	sess, err := e.auth.LoginCustomer(ctx, "CARLA@example.com ", "s3cret")
	require.NoError(t, err)

	p, err := e.auth.Principal(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.Principal{Kind: models.PrincipalCustomer, ID: c.ID, Name: "Carla Dizon"}, p)
	assert.Equal(t, tokens.RefreshTTL-tokens.AccessTTL, sess.RefreshExp.Sub(sess.AccessExp))
}

func TestLoginAdmin_SeparateIdentitySpace(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	register(t, e, "admin@example.com")

	created, err := e.auth.EnsureAdmin(ctx, "admin", "adminpw")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = e.auth.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	// a customer's credentials never open the admin door
	_, err = e.auth.LoginAdmin(ctx, "admin@example.com", "s3cret")
	require.ErrorIs(t, err, ErrUnauthorized)

	sess, err := e.auth.LoginAdmin(ctx, "admin", "adminpw")
	require.NoError(t, err)
	p, err := e.auth.Principal(sess.AccessToken)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "admin", p.Name)
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	register(t, e, "carla@example.com")

	first, err := e.auth.LoginCustomer(ctx, "carla@example.com", "s3cret")
	require.NoError(t, err)

	second, err := e.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.Principal, second.Principal)

	_, err = e.auth.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "a used refresh token is dead")

	require.NoError(t, e.auth.Logout(ctx, second.RefreshToken))
	_, err = e.auth.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPrincipal_RejectsForeignTokens(t *testing.T) {
	e := newEnv(t, tuesday2pm)
	other := &AuthService{Repo: e.repo, AccessSecret: []byte("someone-else"), RefreshSecret: []byte("x")}
	sess, _, err := other.sign(models.Principal{Kind: models.PrincipalAdmin, ID: 1, Name: "root"}, tuesday2pm)
	require.NoError(t, err)

	_, err = e.auth.Principal(sess.AccessToken)
	require.Error(t, err)
}

func TestProfile_MatchesReservationsByEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	c := register(t, e, "ben@example.com")

	_, err := e.bookings.Book(ctx, booking("2025-06-03", "18:00", 2))
	require.NoError(t, err)
	other := booking("2025-06-03", "19:00", 2)
	other.GuestEmail = "someone@example.com"
	_, err = e.bookings.Book(ctx, other)
	require.NoError(t, err)

	e.product42(t)
	require.NoError(t, e.carts.Set(ctx, "sid", 42, 1))
	_, err = e.orders.PlaceOrder(ctx, "sid", &models.Principal{Kind: models.PrincipalCustomer, ID: c.ID}, takeout())
	require.NoError(t, err)

	prof, err := e.auth.Profile(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, prof.Orders, 1)
	require.Len(t, prof.Reservations, 1)
	assert.Equal(t, "18:00", prof.Reservations[0].ReservationTime)
}
