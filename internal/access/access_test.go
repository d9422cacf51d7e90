package access

import (
	"context"
	"testing"

	"sanogestion/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeRoleMatrix(t *testing.T) {
	trading := &Actor{ID: 1, Role: model.RoleTrading}
	admin := &Actor{ID: 2, Role: model.RoleAdministrator}

	assert.Equal(t, Allow, Authorize(trading, model.RoleTrading))
	assert.Equal(t, Forbidden, Authorize(trading, model.RoleAcademy))
	assert.Equal(t, Forbidden, Authorize(trading, model.RoleDigital))
	assert.Equal(t, Forbidden, Authorize(trading, model.RoleComptabilite))
	assert.Equal(t, Forbidden, Authorize(trading, model.RoleAdministrator))

	for _, role := range model.Roles {
		assert.Equal(t, Allow, Authorize(admin, role))
	}
	assert.Equal(t, Allow, Authorize(admin))
}

func TestAuthorizeAnonymous(t *testing.T) {
	assert.Equal(t, Unauthenticated, Authorize(nil))
	assert.Equal(t, Unauthenticated, Authorize(nil, model.RoleTrading))
}

func TestAuthorizeEmptyRoleSetAdmitsAnyActor(t *testing.T) {
	assert.Equal(t, Allow, Authorize(&Actor{Role: model.RoleDigital}))
}

func TestCanManage(t *testing.T) {
	owner := uint(5)
	other := uint(6)
	actor := &Actor{ID: 5, Role: model.RoleAcademy}

	assert.True(t, CanManage(actor, &owner))
	assert.False(t, CanManage(actor, &other))
	assert.False(t, CanManage(actor, nil))
	assert.True(t, CanManage(&Actor{Role: model.RoleAdministrator}, &other))
	assert.False(t, CanManage(nil, &owner))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), &Actor{ID: 3})
	a, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.EqualValues(t, 3, a.ID)
}
